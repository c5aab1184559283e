package v1

import (
	"intern-match/internal/delivery/http/handler"
	"intern-match/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Auth           *middleware.AuthMiddleware
	Recommendation *handler.RecommendationHandler
	Match          *handler.MatchHandler
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	// Scoring ad-hoc payloads needs no identity.
	if d.Match != nil {
		d.Match.RegisterRoutes(r)
	}

	if d.Auth == nil {
		return
	}
	authMw := d.Auth.Middleware()

	if d.Recommendation != nil {
		d.Recommendation.RegisterRoutes(r.Group("/recommendations", authMw))
	}
	if d.Match != nil {
		d.Match.RegisterListingRoutes(r.Group("/listings", authMw))
	}
}
