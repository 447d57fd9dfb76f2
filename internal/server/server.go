package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"plexbrowse/internal/api"
	"plexbrowse/internal/config"
	"plexbrowse/internal/library"
)

type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	httpServer *http.Server
	router     *chi.Mux
	handler    *api.Handler

	shutdownOnce sync.Once
	shutdownDone chan struct{}
}

func New(cfg *config.Config, logger zerolog.Logger, svc *library.Service, static fs.FS) *Server {
	s := &Server{
		cfg:          cfg,
		logger:       logger,
		handler:      api.NewHandler(svc, static, logger),
		shutdownDone: make(chan struct{}),
	}

	s.router = chi.NewRouter()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(RequestID)
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(CORSMiddleware())
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handler.Index)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handler.Health)

		r.Get("/sections", s.handler.ListSections)
		r.Get("/sections/{id}", s.handler.GetSectionItems)
		r.Get("/shows/{id}/seasons", s.handler.GetShowSeasons)
		r.Get("/seasons/{id}/episodes", s.handler.GetSeasonEpisodes)

		r.Post("/refresh", s.handler.Refresh)

		r.Post("/cache/clear", s.handler.ClearCache)
		r.Get("/cache/stats", s.handler.CacheStats)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Shutdown has
// drained in-flight requests.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. After Shutdown is called it does not
// return until in-flight requests have finished or the drain deadline passed.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Msg("starting server")

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-s.shutdownDone
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.shutdownOnce.Do(func() { close(s.shutdownDone) })
	return err
}
