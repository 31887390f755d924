package handler

import (
	"errors"
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	TraceID int    `json:"traceId"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// abortTraced writes the error envelope for err. Every envelope this service
// emits carries the request trace id, error paths included.
func abortTraced(c echo.Context, err error, traceID int) error {
	message := errorx.MaskErrorMessage(err)

	var target *errorx.Error
	if !errors.As(err, &target) {
		return c.JSON(http.StatusInternalServerError, &errorResponse{TraceID: traceID, Code: "error", Message: message})
	}

	return c.JSON(target.Status(), &errorResponse{TraceID: traceID, Code: target.Code(), Message: message})
}
