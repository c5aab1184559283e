package usecase

import (
	"context"
	"errors"

	"intern-match/internal/domain/matching"
	"intern-match/internal/domain/recommendation"
	"intern-match/internal/pkg/logger"
	"intern-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxRankLimit = 50

type RankParams struct {
	Scoring matching.ScoringProfile
	// MinScore nil means matching.DefaultMinScore.
	MinScore *int
	Limit    int
}

type MatchingUsecase interface {
	// Score rates one ad-hoc listing against an ad-hoc profile.
	Score(profile matching.CandidateProfile, listing matching.Listing, scoring matching.ScoringProfile) (matching.MatchResult, error)
	// Rank filters ad-hoc listings for eligibility and ranks them.
	Rank(profile matching.CandidateProfile, listings []matching.Listing, params RankParams) ([]recommendation.Item, error)
	// MatchStoredListing rates a stored listing against the candidate's stored profile
	// with the client heuristic.
	MatchStoredListing(ctx context.Context, candidateID, listingID uuid.UUID) (recommendation.Item, error)
}

type Matching struct {
	engine   *matching.Engine
	profiles repository.ProfileRepository
	listings repository.ListingRepository
	logger   *zap.Logger
}

func NewMatchingUsecase(engine *matching.Engine, profiles repository.ProfileRepository, listings repository.ListingRepository, log *zap.Logger) *Matching {
	if engine == nil {
		engine = matching.NewEngine(nil)
	}
	return &Matching{engine: engine, profiles: profiles, listings: listings, logger: logger.OrNop(log)}
}

func (u *Matching) Score(profile matching.CandidateProfile, listing matching.Listing, scoring matching.ScoringProfile) (matching.MatchResult, error) {
	if scoring == "" {
		scoring = matching.ScoringClient
	}
	res, err := u.engine.Match(profile, listing, scoring)
	if err != nil {
		if errors.Is(err, matching.ErrUnknownScoringProfile) {
			return matching.MatchResult{}, ErrInvalidInput
		}
		u.logger.Warn("score failed", zap.String("listing_id", listing.ID), zap.Error(err))
		return matching.MatchResult{}, ErrInvalidInput
	}
	return res, nil
}

func (u *Matching) Rank(profile matching.CandidateProfile, listings []matching.Listing, params RankParams) ([]recommendation.Item, error) {
	if params.Scoring == "" {
		params.Scoring = matching.ScoringClient
	}
	limit := params.Limit
	if limit == 0 {
		limit = matching.DefaultLimit
	}
	if limit < 0 || limit > MaxRankLimit {
		return nil, ErrInvalidInput
	}
	minScore := matching.DefaultMinScore
	if params.MinScore != nil {
		minScore = *params.MinScore
	}
	if minScore < 0 || minScore > 100 {
		return nil, ErrInvalidInput
	}

	ranked, err := u.engine.Rank(profile, listings, nil, matching.RankOptions{
		Scoring:  params.Scoring,
		MinScore: minScore,
		Limit:    limit,
		OnSkip: func(l matching.Listing, err error) {
			u.logger.Warn("listing skipped", zap.String("listing_id", l.ID), zap.Error(err))
		},
	})
	if err != nil {
		return nil, ErrInvalidInput
	}
	return recommendation.NewItems(ranked, listings), nil
}

func (u *Matching) MatchStoredListing(ctx context.Context, candidateID, listingID uuid.UUID) (recommendation.Item, error) {
	if candidateID == uuid.Nil {
		return recommendation.Item{}, ErrUnauthorized
	}
	if listingID == uuid.Nil {
		return recommendation.Item{}, ErrListingNotFound
	}

	profile, err := u.profiles.FindByCandidateID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return recommendation.Item{}, ErrProfileNotFound
		}
		u.logger.Error("load profile failed", zap.String(logger.FieldCandidateID, candidateID.String()), zap.Error(err))
		return recommendation.Item{}, ErrInternal
	}
	if !profile.Valid() {
		return recommendation.Item{}, ErrProfileNotFound
	}

	listing, err := u.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return recommendation.Item{}, ErrListingNotFound
		}
		u.logger.Error("load listing failed", zap.String("listing_id", listingID.String()), zap.Error(err))
		return recommendation.Item{}, ErrInternal
	}

	res, err := u.engine.Match(profile, listing, matching.ScoringClient)
	if err != nil {
		return recommendation.Item{}, ErrInternal
	}
	return recommendation.NewItem(res, listing), nil
}
