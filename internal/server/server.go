package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"watchfilter/internal/api"
	"watchfilter/internal/availability"
	"watchfilter/internal/logging"
	"watchfilter/internal/metrics"
	"watchfilter/internal/services"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// Server serves the HTTP API.
type Server struct {
	bind    string
	logger  *slog.Logger
	svc     *api.Service
	metrics *metrics.Collector

	listener net.Listener
	server   *http.Server
}

// New builds a Server for svc. collector may be nil to disable /metrics.
func New(bind string, svc *api.Service, collector *metrics.Collector, logger *slog.Logger) (*Server, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, services.Wrap(services.ErrConfiguration, "api-server", "new", "bind address required", nil)
	}
	if svc == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api-server", "new", "service required", nil)
	}
	s := &Server{
		bind:    bind,
		logger:  logging.NewComponentLogger(logger, "api-server"),
		svc:     svc,
		metrics: collector,
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/filter", s.handleFilter)
	mux.HandleFunc("GET /api/availability/{kind}/{id}", s.handleAvailability)
	mux.HandleFunc("GET /api/channels", s.handleChannels)
	mux.HandleFunc("GET /api/cache", s.handleCache)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var handler http.Handler = mux
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
		handler = s.metrics.Middleware(handler)
	}
	return s.withRequestID(handler)
}

// Start listens on the bind address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := services.WithRequestID(r.Context(), id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.WithContext(ctx, s.logger).Debug("request served",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := api.FilterRequest{
		Query:   query.Get("query"),
		Kind:    query.Get("kind"),
		Channel: query.Get("channel"),
	}
	if value := strings.TrimSpace(query.Get("year")); value != "" {
		year, err := strconv.Atoi(value)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		req.Year = year
	}
	for _, value := range append(query["tier"], query["tiers"]...) {
		for _, tier := range strings.Split(value, ",") {
			if tier = strings.TrimSpace(tier); tier != "" {
				req.Tiers = append(req.Tiers, tier)
			}
		}
	}

	resp, err := s.svc.Filter(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	resp, err := s.svc.Availability(r.Context(), r.PathValue("kind"), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Channels(r.Context(), r.URL.Query().Get("kind"), r.URL.Query().Get("query"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	items := r.URL.Query().Get("items")
	withItems := items == "1" || strings.EqualFold(items, "true")
	s.writeJSON(w, http.StatusOK, s.svc.CacheStatus(withItems))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusFor maps an error to an HTTP status code by its services marker.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, availability.ErrInvalidCriterion),
		errors.Is(err, availability.ErrInvalidIdentity):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrTransient),
		errors.Is(err, services.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	logger := logging.WithContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logging.WarnWithContext(logger, "api request failed", "api_request_failed",
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check TMDB connectivity and API key"),
			logging.String(logging.FieldImpact, "client received an error response"),
		)
	} else {
		logger.Debug("api request rejected",
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
		)
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
