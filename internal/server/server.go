package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bayneri/lossbudget/internal/budget"
	applog "github.com/bayneri/lossbudget/internal/log"
	"github.com/bayneri/lossbudget/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	addr     string
	calc     *budget.Calculator
	logger   *zap.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	router   chi.Router
}

func New(addr string, calc *budget.Calculator, logger *zap.Logger) (*Server, error) {
	s := &Server{
		addr:     addr,
		calc:     calc,
		logger:   logger,
		metrics:  metrics.New(),
		registry: prometheus.NewRegistry(),
	}
	if err := s.metrics.Register(s.registry); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(applog.Logger(s.logger, "http"))
	router.Use(s.metrics.Handler)

	router.Get("/healthz", s.health)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/fibers", s.listFibers)
		r.Get("/fibers/{fiber}", s.getFiber)
		r.Post("/budget", s.computeBudget)
		r.Post("/wavelengths", s.computeWavelengths)
	})
	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("address", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
