// Package server serves digest previews over HTTP.
//
// Every GET /digest.pdf performs one complete run and streams the PDF
// back; nothing is written to disk. GET /layout returns the panel grid as
// JSON so a page layout can be checked without fetching any content.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/config"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
	"github.com/pocketdigest/pocketdigest/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Server renders digests on request.
type Server struct {
	Config *config.Config
	Runner *pipeline.Runner

	// Cache is shared by every request so reloading a preview does not
	// refetch every service. Nil gives each request its own cache.
	Cache  cache.Cache
	Logger *log.Logger

	// Producers replace the configured source of individual panels.
	Producers map[grid.PanelID]content.Producer
}

// New returns a server for cfg with a shared in-memory cache. Cached
// responses expire after http.cache_ttl, or DefaultServerCacheTTL.
func New(cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	c := *cfg
	if c.HTTP.CacheTTL <= 0 {
		c.HTTP.CacheTTL = config.DefaultServerCacheTTL
	}
	return &Server{
		Config: &c,
		Runner: pipeline.NewRunner(logger),
		Cache:  cache.NewMemoryCache(),
		Logger: logger,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/layout", s.handleLayout)
	r.Get("/digest.pdf", s.handleDigest)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.Logger.Info("serving previews", "addr", addr)
	if err := srv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", addr)
	}
	return <-done
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	info, err := pipeline.Describe(cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(info)
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	refresh, err := boolParam(r, "refresh", false)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.Runner.Execute(r.Context(), pipeline.Options{
		Config:    cfg,
		Refresh:   refresh,
		Cache:     s.Cache,
		Producers: s.Producers,
		Logger:    s.Logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", `inline; filename="digest.pdf"`)
	h.Set("Cache-Control", "no-store")
	h.Set("X-Digest-Run", res.RunID)
	h.Set("X-Digest-Failed", strconv.Itoa(len(res.Failed)))
	h.Set("X-Digest-Dropped", strconv.Itoa(res.Dropped))
	h.Set("Content-Length", strconv.Itoa(len(res.PDF)))
	_, _ = w.Write(res.PDF)
}

// requestConfig applies query overrides to a copy of the server config.
func (s *Server) requestConfig(r *http.Request) (*config.Config, error) {
	cfg := *s.Config
	b, err := boolParam(r, "boundaries", cfg.Page.Boundaries)
	if err != nil {
		return nil, err
	}
	cfg.Page.Boundaries = b
	return &cfg, nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
	}
	return b, nil
}

type errorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.Logger.Error("request failed", "err", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput):
		return http.StatusBadRequest
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
