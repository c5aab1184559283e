package dto

import "intern-match/internal/domain/matching"

// Profiles and listings arrive loosely typed and go through matching.DecodeProfile
// and matching.DecodeListing.
type MatchScoreRequest struct {
	Profile        map[string]any `json:"profile" validate:"required"`
	Listing        map[string]any `json:"listing" validate:"required"`
	ScoringProfile string         `json:"scoring_profile" validate:"omitempty,oneof=client daily"`
}

type MatchRankRequest struct {
	Profile        map[string]any   `json:"profile" validate:"required"`
	Listings       []map[string]any `json:"listings" validate:"max=1000"`
	MinScore       *int             `json:"min_score" validate:"omitempty,gte=0,lte=100"`
	Limit          *int             `json:"limit" validate:"omitempty,gte=1,lte=50"`
	ScoringProfile string           `json:"scoring_profile" validate:"omitempty,oneof=client daily"`
}

type MatchScoreResponse struct {
	Score        int                     `json:"score"`
	FactorScores map[matching.Factor]int `json:"factor_scores"`
	Reasons      []string                `json:"reasons"`
}
