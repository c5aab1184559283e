package handler

import (
	"strconv"
	"strings"

	"intern-match/internal/delivery/http/dto"
	"intern-match/internal/pkg/response"
	"intern-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	uc usecase.DailyRecommendationUsecase
}

func NewRecommendationHandler(uc usecase.DailyRecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

// RegisterRoutes mounts the daily endpoints on a /recommendations group.
func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/daily", h.GetDaily)
	r.Post("/daily", h.PostDaily)
}

func (h *RecommendationHandler) GetDaily(c fiber.Ctx) error {
	var req dto.DailyRecommendationRequest

	if s := strings.TrimSpace(c.Query("limit")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return badRequest(err, []dto.FieldError{{Field: "limit", Rule: "int"}})
		}
		req.Limit = &v
	}
	if s := strings.TrimSpace(c.Query("force_refresh")); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return badRequest(err, []dto.FieldError{{Field: "force_refresh", Rule: "bool"}})
		}
		req.ForceRefresh = v
	}
	if fields, err := dto.Validate(&req); err != nil {
		return badRequest(err, fields)
	}
	return h.serveDaily(c, req)
}

func (h *RecommendationHandler) PostDaily(c fiber.Ctx) error {
	var req dto.DailyRecommendationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.serveDaily(c, req)
}

func (h *RecommendationHandler) serveDaily(c fiber.Ctx, req dto.DailyRecommendationRequest) error {
	candidateID, err := candidateIDFromCtx(c)
	if err != nil {
		return err
	}

	params := usecase.DailyParams{ForceRefresh: req.ForceRefresh}
	if req.Limit != nil {
		params.Limit = *req.Limit
	}

	res, err := h.uc.GetDaily(c.Context(), candidateID, params)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.DailyRecommendationResponse{Recommendations: res.Record.Items}
	if res.Message != "" {
		out.Message = res.Message
		return response.Success(c, fiber.StatusOK, response.MessageOK, out)
	}

	cached := res.Cached
	generatedAt := res.Record.GeneratedAt
	out.Cached = &cached
	out.GeneratedAt = &generatedAt
	out.ProfileCompleteness = res.Completeness
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
