package handler

import (
	"errors"

	"intern-match/internal/delivery/http/dto"
	"intern-match/internal/delivery/http/middleware"
	"intern-match/internal/pkg/response"
	"intern-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err).WithCode(response.CodeUnauthorized)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err).WithCode(response.CodeBadRequest)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err).WithCode(response.CodeProfileNotFound)
	case errors.Is(err, usecase.ErrListingNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Listing not found", nil, err).WithCode(response.CodeListingNotFound)
	case errors.Is(err, usecase.ErrRateLimited):
		return middleware.NewAppError(fiber.StatusTooManyRequests, "Too many refresh requests", nil, err).WithCode(response.CodeRateLimited)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(cause error, data interface{}) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", data, cause).WithCode(response.CodeBadRequest)
}

// bindAndValidate decodes an optional JSON body into req and runs its validate tags.
func bindAndValidate(c fiber.Ctx, req any) error {
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(req); err != nil {
			return badRequest(err, nil)
		}
	}
	if fields, err := dto.Validate(req); err != nil {
		return badRequest(err, fields)
	}
	return nil
}

func candidateIDFromCtx(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(middleware.CtxCandidateIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil).WithCode(response.CodeUnauthorized)
	}
	return id, nil
}
