// Package server exposes the monitor over HTTP: the public score and metrics
// endpoints plus the secret-protected cron trigger, with an in-process
// scheduler for unattended daily runs.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"escmon/internal/config"
	"escmon/internal/logger"
	"escmon/internal/scoring"
	"escmon/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/robfig/cron/v3"
)

// maxLookbackDays bounds how far back the read endpoints search for the most
// recent report.
const maxLookbackDays = 7

// RunFunc executes one full monitoring run: ingest, score, persist.
type RunFunc func(ctx context.Context) scoring.RunResult

// Server is the HTTP front of the monitor.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	scheduler  *cron.Cron
	reports    *store.Store
	run        RunFunc
	cfg        config.Server
}

// New creates the server over the report store and run function.
func New(reports *store.Store, run RunFunc, cfg config.Server) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		scheduler: cron.New(),
		reports:   reports,
		run:       run,
		cfg:       cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/score", s.handleScore)
	s.router.Get("/metrics", s.handleMetrics)

	s.router.Route("/api/cron", func(r chi.Router) {
		r.Use(s.requireCronSecret)
		r.Post("/run", s.handleCronRun)
	})
}

// Start runs the scheduler and the HTTP listener. It blocks until the
// listener stops.
func (s *Server) Start() error {
	log := logger.With("server")

	if s.cfg.CronSchedule != "" {
		_, err := s.scheduler.AddFunc(s.cfg.CronSchedule, func() {
			log.Info().Msg("Scheduled run starting")
			res := s.run(context.Background())
			if res.Result != "ok" {
				log.Error().Str("error", res.ErrorMessage).Msg("Scheduled run failed")
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", s.cfg.CronSchedule, err)
		}
		s.scheduler.Start()
		log.Info().Str("schedule", s.cfg.CronSchedule).Msg("Scheduler started")
	}

	log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop()
	return s.httpServer.Shutdown(ctx)
}
