package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	serrors "github.com/dragon88888888888/dashboard-serenity/internal/errors"
	"github.com/dragon88888888888/dashboard-serenity/internal/observability"
	"github.com/dragon88888888888/dashboard-serenity/server/dashboard"
	"github.com/dragon88888888888/dashboard-serenity/server/insight"
)

// DashboardStats is the full dashboard payload: the statistical snapshot plus
// the narrative insight bundle.
type DashboardStats struct {
	dashboard.RawSnapshot
	AIInsights *insight.Bundle `json:"aiInsights"`
}

// DashboardResponse is the envelope returned by GET /api/dashboard.
type DashboardResponse struct {
	Success bool            `json:"success"`
	Stats   *DashboardStats `json:"stats,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// GetDashboard handles GET /api/dashboard. Statistical extraction is
// all-or-nothing; narrative generation degrades per agent and never fails
// the request.
func (s *APIV1Service) GetDashboard(c echo.Context) error {
	reqCtx := observability.NewRequestContext(slog.Default())
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	if err := s.aggregationSem.Acquire(ctx, 1); err != nil {
		return c.JSON(http.StatusServiceUnavailable, &DashboardResponse{
			Success: false,
			Error:   "server is shutting down",
		})
	}
	defer s.aggregationSem.Release(1)

	snapshot, err := s.Assembler.Assemble(ctx, time.Now().UTC())
	if err != nil {
		reqCtx.Error("failed to assemble dashboard snapshot", err,
			slog.String(observability.LogFieldErrorCode, string(serrors.GetCodeFromError(err, serrors.ErrCodeDataAccess))))
		return c.JSON(http.StatusInternalServerError, &DashboardResponse{
			Success: false,
			Error:   "failed to load dashboard statistics",
		})
	}

	var bundle *insight.Bundle
	if s.Orchestrator != nil {
		bundle = s.Orchestrator.GenerateInsights(ctx, snapshot)
	} else {
		bundle = insight.FallbackBundle()
	}

	reqCtx.Info("dashboard request completed",
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return c.JSON(http.StatusOK, &DashboardResponse{
		Success: true,
		Stats: &DashboardStats{
			RawSnapshot: *snapshot,
			AIInsights:  bundle,
		},
	})
}

// GetHealth handles GET /healthz with a database round trip.
func (s *APIV1Service) GetHealth(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.Store.GetDriver().GetDB().PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
