// Package server wires the HTTP surface of the dashboard.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/dragon88888888888/dashboard-serenity/internal/profile"
	"github.com/dragon88888888888/dashboard-serenity/server/ai"
	"github.com/dragon88888888888/dashboard-serenity/server/dashboard"
	"github.com/dragon88888888888/dashboard-serenity/server/insight"
	apiv1 "github.com/dragon88888888888/dashboard-serenity/server/router/api/v1"
	"github.com/dragon88888888888/dashboard-serenity/store"
)

type Server struct {
	e *echo.Echo

	Profile *profile.Profile
	Store   *store.Store
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		e:       e,
		Profile: profile,
		Store:   store,
	}

	e.Use(echomw.Recover())
	if profile.IsDev() {
		e.Use(echomw.Logger())
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.OPTIONS},
	}))

	assembler := dashboard.NewAssembler(store)

	var orchestrator *insight.Orchestrator
	if profile.IsAIEnabled() {
		provider, err := ai.NewProvider(ai.NewConfigFromProfile(profile))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create narrative backend provider")
		}
		orchestrator = insight.NewOrchestrator(provider, time.Duration(profile.AITimeoutSecs)*time.Second)
		slog.Info("insight generation enabled", "model", profile.AIModel)
	} else {
		slog.Info("insight generation disabled, serving fallback narratives")
	}

	apiV1Service := apiv1.NewAPIV1Service(profile, store, assembler, orchestrator)
	apiV1Service.RegisterRoutes(e)

	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode, "version", s.Profile.Version)
	return s.e.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.e.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	slog.Info("serenity dashboard stopped properly")
}
