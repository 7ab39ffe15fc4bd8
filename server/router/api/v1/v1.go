// Package v1 exposes the dashboard HTTP API.
package v1

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/dragon88888888888/dashboard-serenity/internal/profile"
	"github.com/dragon88888888888/dashboard-serenity/server/dashboard"
	"github.com/dragon88888888888/dashboard-serenity/server/insight"
	"github.com/dragon88888888888/dashboard-serenity/server/middleware"
	"github.com/dragon88888888888/dashboard-serenity/store"
)

// maxConcurrentAggregations bounds how many snapshot assemblies plus insight
// runs may be in flight at once. Requests over the cap queue on the semaphore.
const maxConcurrentAggregations = 4

type APIV1Service struct {
	Profile      *profile.Profile
	Store        *store.Store
	Assembler    *dashboard.Assembler
	Orchestrator *insight.Orchestrator

	aggregationSem *semaphore.Weighted
	rateLimiter    *middleware.RateLimiter
}

// NewAPIV1Service creates the API service. Orchestrator may be nil when
// insight generation is disabled; fallback narratives are served instead.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, assembler *dashboard.Assembler, orchestrator *insight.Orchestrator) *APIV1Service {
	return &APIV1Service{
		Profile:        profile,
		Store:          store,
		Assembler:      assembler,
		Orchestrator:   orchestrator,
		aggregationSem: semaphore.NewWeighted(maxConcurrentAggregations),
		rateLimiter:    middleware.NewRateLimiter(),
	}
}

// RegisterRoutes registers all API routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	apiGroup := e.Group("/api", s.rateLimiter.Middleware())
	apiGroup.GET("/dashboard", s.GetDashboard)

	e.GET("/healthz", s.GetHealth)
}
