package dto

import (
	"time"

	"intern-match/internal/domain/recommendation"
)

type DailyRecommendationRequest struct {
	Limit        *int `json:"limit" validate:"omitempty,gte=1,lte=20"`
	ForceRefresh bool `json:"force_refresh"`
}

// DailyRecommendationResponse covers all three daily shapes: a cached record, a
// freshly generated one (with completeness), and the empty-catalog message.
type DailyRecommendationResponse struct {
	Recommendations     []recommendation.Item        `json:"recommendations"`
	Cached              *bool                        `json:"cached,omitempty"`
	GeneratedAt         *time.Time                   `json:"generated_at,omitempty"`
	ProfileCompleteness *recommendation.Completeness `json:"profile_completeness,omitempty"`
	Message             string                       `json:"message,omitempty"`
}
