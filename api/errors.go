package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/borzacchiello/goconcolic/grading"
	"github.com/borzacchiello/goconcolic/programs"
	"github.com/gin-gonic/gin"
)

// AppError is an error with the HTTP status it is reported with.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// MapError picks the status of err.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, programs.ErrUnknownProgram), errors.Is(err, programs.ErrUnknownVariant):
		return NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, grading.ErrInvalidRequest):
		return NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewAppError(http.StatusServiceUnavailable, "request interrupted", err)
	}
	return NewAppError(http.StatusInternalServerError, "internal error", err)
}

func handleError(c *gin.Context, err error) {
	appErr := MapError(err)
	if appErr.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
