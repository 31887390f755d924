package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"qnabank/internal/interfaces"
	"qnabank/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceUser struct {
	container *do.Injector
	store     interfaces.UserStore
	auth      *Authentication
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	store, err := do.Invoke[interfaces.UserStore](container)
	if err != nil {
		return nil, err
	}

	auth, err := do.Invoke[*Authentication](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{container, store, auth}, nil
}

// IssueToken looks up the user and signs a token for them. The returned
// projection never carries the password.
func (service *ServiceUser) IssueToken(ctx context.Context, id string) (string, *models.PublicUser, error) {
	user, err := service.store.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, errorx.Wrap(ErrUserNotFound, errorx.NotExist)
	}
	if err != nil {
		return "", nil, errorx.Wrap(err, errorx.Service)
	}

	token, err := service.auth.CreateToken(user)
	if err != nil {
		return "", nil, errorx.Wrap(err, errorx.Service)
	}

	slog.Info("token issued", "userId", user.ID)
	return token, PublicUser(user), nil
}
