package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"qnabank/internal/models"
	"qnabank/internal/pkg"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/labstack/echo/v4"
)

type ctxKey string

var ctxKeyAuthUser ctxKey = "AUTH_USER"

// Authn resolves a Bearer token into the public user view and stores it on
// the request context. Requests without a token pass through untouched;
// authorization policy is not this service's concern.
func Authn(verifier interface {
	Validate(token string) (*models.PublicUser, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			user, err := verifier.Validate(token)
			if err != nil {
				// although it's a client error, we don't want to leak details
				traceID := pkg.NewTraceID()
				slog.Warn("token rejected", "traceId", traceID, "error", err)
				return abortTraced(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), traceID)
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthUser, user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// AuthUser returns the authenticated user, if any.
func AuthUser(ctx context.Context) *models.PublicUser {
	user, ok := ctx.Value(ctxKeyAuthUser).(*models.PublicUser)
	if !ok {
		return nil
	}
	return user
}
