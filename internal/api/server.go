// Package api exposes the dispatcher over plain HTTP for clients that do
// not speak MCP, plus health and metrics endpoints for operators.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/config"
	"futebol-mcp/internal/dispatch"
	"futebol-mcp/internal/logging"
	"futebol-mcp/internal/metrics"
)

// HealthChecker reports backend connectivity.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server is the HTTP face of the dispatcher.
type Server struct {
	cfg        *config.ServerConfig
	dispatcher *dispatch.Dispatcher
	health     HealthChecker
	metrics    *metrics.Metrics
	logger     *logging.Logger
	router     chi.Router
}

// New wires the routes.
func New(cfg *config.ServerConfig, dispatcher *dispatch.Dispatcher, health HealthChecker, m *metrics.Metrics, logger *logging.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		health:     health,
		metrics:    m,
		logger:     logger.WithComponent("api"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tools", s.handleListTools)
		r.Post("/tools/{name}/invoke", s.handleInvoke)
	})

	s.router = r
	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving HTTP until ctx is done, then drains with a
// short grace period.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	tools := s.dispatcher.Tools()
	out := make([]map[string]interface{}, 0, len(tools))
	for _, t := range tools {
		out = append(out, map[string]interface{}{
			"name":         t.Name,
			"description":  t.Description,
			"input_schema": t.Schema,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": out})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var args map[string]interface{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			s.writeError(w, apperr.NewInvalidArgument("body", "must be a JSON object", nil).WithTool(name))
			return
		}
	}

	ctx := logging.WithTraceID(r.Context(), middleware.GetReqID(r.Context()))
	result, err := s.dispatcher.Invoke(ctx, name, args)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": result})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.NewQueryFailed(err)
	}
	if detail, ok := ae.Details.(apperr.RateLimitDetail); ok {
		w.Header().Set("Retry-After", strconv.Itoa(int(detail.RetryAfter.Seconds()+0.5)))
	}
	writeJSON(w, statusFor(ae.Code), map[string]interface{}{"error": ae})
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeUnknownTool, apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperr.CodeRateLimited:
		return http.StatusTooManyRequests
	case apperr.CodeBackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
