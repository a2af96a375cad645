// Package server publishes the airport dataset over HTTP at the path the
// browser form fetches it from, plus a health probe and a suggestion
// endpoint backed by the same matcher the form uses.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/flightform/internal/suggest"
	"github.com/oakwood-commons/flightform/pkg/airports"
	"github.com/oakwood-commons/flightform/pkg/logger"
)

// Route paths.
const (
	PathAirports = "/static/airports.json"
	PathHealth   = "/api/health"
	PathSuggest  = "/api/airports/suggest"
)

// Server serves one dataset.
type Server struct {
	dataset *airports.Dataset
	log     logr.Logger
	timeout time.Duration
}

// New returns a server for ds. Requests arriving before ds is ready get 503.
func New(ctx context.Context, ds *airports.Dataset) *Server {
	return &Server{
		dataset: ds,
		log:     *logger.ForComponent(ctx, "server"),
		timeout: 60 * time.Second,
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Timeout(s.timeout),
	)
	router.Get(PathHealth, s.health)
	router.Get(PathAirports, s.airports)
	router.Get(PathSuggest, s.suggest)
	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.V(1).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":   "ok",
		"ready":    s.dataset.IsReady(),
		"airports": s.dataset.Len(),
	}
	if err := s.dataset.Err(); err != nil {
		body["status"] = "degraded"
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

// ready writes 503 and returns false when the dataset can not be served.
func (s *Server) ready(w http.ResponseWriter) bool {
	if !s.dataset.IsReady() {
		writeError(w, http.StatusServiceUnavailable, "airport data is still loading")
		return false
	}
	if err := s.dataset.Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return false
	}
	return true
}

func (s *Server) airports(w http.ResponseWriter, _ *http.Request) {
	if !s.ready(w) {
		return
	}
	records := s.dataset.Records()
	if records == nil {
		records = []airports.Record{}
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}
	q := r.URL.Query().Get("q")
	limit := suggest.MaxResults
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	matches := suggest.Match(s.dataset.Records(), q, limit)
	if matches == nil {
		matches = []airports.Record{}
	}
	type suggestion struct {
		airports.Record
		Label string `json:"label"`
	}
	out := make([]suggestion, 0, len(matches))
	for _, rec := range matches {
		out = append(out, suggestion{Record: rec, Label: rec.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}
