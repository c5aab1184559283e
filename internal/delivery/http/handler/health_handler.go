package handler

import (
	"context"
	"time"

	"intern-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const (
	healthOK          = "ok"
	healthDown        = "down"
	healthUnavailable = "unavailable"
	healthDisabled    = "disabled"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports dependency status. The database is required; the cache
// is optional, so a missing cache never fails the check.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	out := map[string]string{"database": healthDisabled, "redis": healthDisabled}

	if h.db != nil {
		out["database"] = healthOK
		if err := h.db.Ping(ctx); err != nil {
			out["database"] = healthDown
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		out["redis"] = healthOK
		if err := h.cache.Ping(ctx); err != nil {
			out["redis"] = healthUnavailable
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, "", out)
	}
	return response.Success(c, status, response.MessageOK, out)
}
