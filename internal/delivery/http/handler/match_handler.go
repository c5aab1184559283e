package handler

import (
	"intern-match/internal/delivery/http/dto"
	"intern-match/internal/delivery/http/middleware"
	"intern-match/internal/domain/matching"
	"intern-match/internal/pkg/response"
	"intern-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

// RegisterRoutes mounts the stateless scoring endpoints.
func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/match")
	grp.Post("/score", h.Score)
	grp.Post("/rank", h.Rank)
}

// RegisterListingRoutes mounts the stored-listing match on a /listings group.
func (h *MatchHandler) RegisterListingRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/:listing_id/match", h.GetListingMatch)
}

func (h *MatchHandler) Score(c fiber.Ctx) error {
	var req dto.MatchScoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := matching.DecodeProfile(req.Profile)
	if err != nil {
		return badRequest(err, []dto.FieldError{{Field: "profile", Rule: "decode"}})
	}
	listing, err := matching.DecodeListing(req.Listing)
	if err != nil {
		return badRequest(err, []dto.FieldError{{Field: "listing", Rule: "decode"}})
	}

	res, err := h.uc.Score(profile, listing, matching.ScoringProfile(req.ScoringProfile))
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchScoreResponse{
		Score:        res.OverallScore,
		FactorScores: res.FactorScores,
		Reasons:      res.Reasons,
	})
}

func (h *MatchHandler) Rank(c fiber.Ctx) error {
	var req dto.MatchRankRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := matching.DecodeProfile(req.Profile)
	if err != nil {
		return badRequest(err, []dto.FieldError{{Field: "profile", Rule: "decode"}})
	}

	// Undecodable listings are dropped, the rest still rank.
	listings := make([]matching.Listing, 0, len(req.Listings))
	for _, raw := range req.Listings {
		l, err := matching.DecodeListing(raw)
		if err != nil {
			continue
		}
		listings = append(listings, l)
	}

	params := usecase.RankParams{
		Scoring:  matching.ScoringProfile(req.ScoringProfile),
		MinScore: req.MinScore,
	}
	if req.Limit != nil {
		params.Limit = *req.Limit
	}

	items, err := h.uc.Rank(profile, listings, params)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *MatchHandler) GetListingMatch(c fiber.Ctx) error {
	candidateID, err := candidateIDFromCtx(c)
	if err != nil {
		return err
	}

	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Listing not found", nil, err).WithCode(response.CodeListingNotFound)
	}

	item, err := h.uc.MatchStoredListing(c.Context(), candidateID, listingID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, item)
}
