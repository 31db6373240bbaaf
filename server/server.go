// Package server hosts the HTTP API, the metrics endpoint and the recurring
// analysis trigger on top of the engine service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/fitflow/engine"
	"github.com/hrygo/fitflow/engine/metrics"
	"github.com/hrygo/fitflow/internal/profile"
	"github.com/hrygo/fitflow/plugin/notify"
	apiv1 "github.com/hrygo/fitflow/server/router/api/v1"
	"github.com/hrygo/fitflow/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store
	Engine  *engine.Service

	echoServer *echo.Echo
	queue      *notify.Queue
	exporter   *metrics.Exporter
	cron       *cron.Cron
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())

	exporter := metrics.NewExporter(metrics.DefaultConfig())
	queue := notify.NewQueue(64, buildSinks(profile)...)

	adapter := engine.NewStoreAdapter(store)
	engineService := engine.NewService(adapter, adapter, queue, exporter, profile.HistoryDays)

	s := &Server{
		Profile:    profile,
		Store:      store,
		Engine:     engineService,
		echoServer: e,
		queue:      queue,
		exporter:   exporter,
		cron:       cron.New(),
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	e.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	apiService := apiv1.NewAPIV1Service(profile, store, engineService)
	apiService.RegisterRoutes(e)

	if err := s.cron.AddFunc(profile.AnalysisCron, func() {
		s.runScheduledAnalyses(ctx)
	}); err != nil {
		return nil, errors.Wrapf(err, "invalid analysis cron expression %q", profile.AnalysisCron)
	}

	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	s.queue.Start(ctx)
	s.cron.Start()

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		var err error
		if s.Profile.UNIXSock != "" {
			err = s.echoServer.Start(s.Profile.UNIXSock)
		} else {
			err = s.echoServer.Start(address)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.cron.Stop()
	s.queue.Close()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	slog.Info("server shutdown")
}

// runScheduledAnalyses runs the weekly pipeline for every user the store
// knows about. Failures are per-user; one bad run never blocks the rest.
func (s *Server) runScheduledAnalyses(ctx context.Context) {
	settings, err := s.Store.ListUserSettings(ctx, &store.FindUserSetting{})
	if err != nil {
		slog.Error("failed to list users for scheduled analysis", "error", err)
		return
	}
	if len(settings) == 0 {
		slog.Info("scheduled analysis: no users yet")
		return
	}

	// Users are independent, so run a few in parallel; the per-user lock in
	// the engine still keeps each user single-writer.
	g := &errgroup.Group{}
	g.SetLimit(4)
	for _, setting := range settings {
		userID := setting.UserID
		g.Go(func() error {
			if _, err := s.Engine.RunAnalysis(ctx, userID, ""); err != nil {
				slog.Error("scheduled analysis failed", "user", userID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	slog.Info("scheduled analysis pass complete", "users", len(settings))
}

func buildSinks(profile *profile.Profile) []notify.Sink {
	var sinks []notify.Sink
	if profile.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(profile.WebhookURL))
	}
	if profile.TelegramToken != "" && profile.TelegramChatID != 0 {
		sink, err := notify.NewTelegramSink(profile.TelegramToken, profile.TelegramChatID)
		if err != nil {
			slog.Warn("telegram sink disabled", "error", err)
		} else {
			sinks = append(sinks, sink)
		}
	}
	return sinks
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	})
}
