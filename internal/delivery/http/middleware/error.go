package middleware

import (
	"errors"

	"intern-match/internal/pkg/logger"
	"intern-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AppError is returned by handlers and rendered by ErrorMiddleware. Code is the
// machine-readable error name, e.g. "ProfileNotFound".
type AppError struct {
	StatusCode int
	Message    string
	Code       string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// WithCode sets the error code and returns e.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(log *zap.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger.OrNop(log)}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Path()))
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, response.CodeInternal, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, code, data := normalizeError(err)
		if status >= 500 {
			m.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return response.Error(c, status, msg, code, data)
	}
}

func normalizeError(err error) (int, string, string, interface{}) {
	internal := func() (int, string, string, interface{}) {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, response.CodeInternal, nil
	}
	if err == nil {
		return internal()
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode <= 0 || appErr.StatusCode >= 500 {
			return internal()
		}

		status := appErr.StatusCode
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		code := appErr.Code
		if code == "" {
			code = response.DefaultCodeForStatus(status)
		}
		return status, msg, code, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return internal()
		}

		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, response.DefaultCodeForStatus(status), nil
	}

	return internal()
}
