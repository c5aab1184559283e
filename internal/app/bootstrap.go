package app

import (
	"context"
	"fmt"
	"strings"

	"intern-match/internal/config"
	"intern-match/internal/delivery/http/handler"
	"intern-match/internal/delivery/http/middleware"
	"intern-match/internal/delivery/http/routes"
	v1 "intern-match/internal/delivery/http/routes/v1"
	"intern-match/internal/scheduler"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Scheduler *scheduler.Scheduler
}

// New builds the HTTP app over c. Middleware order is access log, then error
// rendering, so every logged status is the rendered one.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	a := &App{Fiber: f}
	if c.Config.Scheduler.Enabled && c.Warmer != nil {
		a.Scheduler = scheduler.New(c.Config.Scheduler.Spec, c.Config.Recs.Location(), c.Warmer, c.Logger.Named("scheduler"))
	}
	return a
}

// Bootstrap connects dependencies and builds the app. The returned cleanup stops
// the scheduler and closes connections.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	a := New(c)
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			_ = c.Close()
			return nil, nil, err
		}
	}

	cleanup := func() error {
		if a.Scheduler != nil {
			a.Scheduler.Stop()
		}
		return c.Close()
	}
	return a, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(log.Named("http")).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var db, redis handler.Pinger
	if c.DB != nil {
		db = c.DB
	}
	if c.Cache != nil {
		redis = c.Cache
	}

	match := handler.NewMatchHandler(c.Matching)
	routes.NewRegistry(
		handler.NewHealthHandler(db, redis),
		v1.Deps{
			Auth:           middleware.NewAuthMiddleware(c.JWT),
			Recommendation: handler.NewRecommendationHandler(c.Daily),
			Match:          match,
		},
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
