package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"chovatel/internal/auth"
	"chovatel/internal/cache"
	"chovatel/internal/core"
	"chovatel/internal/debounce"
	"chovatel/internal/middleware/trace"
	"chovatel/internal/services"
)

// Options tune the snapshot cache, the post-mutation refresh delay, and the
// per-IP rate limit. Zero values fall back to the defaults.
type Options struct {
	CacheSize    int
	CacheTTL     time.Duration
	RefreshDelay time.Duration
	RateLimit    int
}

func (o Options) withDefaults() Options {
	if o.CacheSize <= 0 {
		o.CacheSize = 256
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.RefreshDelay <= 0 {
		o.RefreshDelay = 600 * time.Millisecond
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 60
	}
	return o
}

type Server struct {
	*http.Server

	calculator *services.CalculatorService
	feedback   *services.FeedbackService

	rateLimiter *rateLimiter

	// Snapshot cache with a debounced re-prime after mutations, so a burst
	// of edits ends with one fresh read instead of many.
	snapshots *cache.SnapshotCache
	refresher *debounce.Scheduler

	cleanupCancel context.CancelFunc
	shutdownOnce  sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, calculator *services.CalculatorService, feedback *services.FeedbackService, verifier auth.Verifier, opts Options) *Server {
	opts = opts.withDefaults()
	mux := http.NewServeMux()

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())

	s := &Server{
		calculator:    calculator,
		feedback:      feedback,
		rateLimiter:   newRateLimiter(opts.RateLimit),
		snapshots:     cache.NewSnapshotCache(opts.CacheSize, opts.CacheTTL),
		refresher:     debounce.NewScheduler(opts.RefreshDelay),
		cleanupCancel: cleanupCancel,
	}
	s.snapshots.StartCleanup(cleanupCtx, 10*time.Minute)

	mux.HandleFunc("GET /api/healthz", handleHealth)
	mux.HandleFunc("GET /api/me", s.handleMe)

	mux.HandleFunc("GET /api/calculator", s.handleGetCalculator)
	mux.HandleFunc("POST /api/calculator/initialize", s.handleInitialize)
	mux.HandleFunc("PUT /api/calculator/animal-count", s.handleAnimalCount)
	mux.HandleFunc("POST /api/calculator/{kind}", s.handleAddItem)
	mux.HandleFunc("PUT /api/calculator/{kind}/{itemId}/value", s.handleUpdateValue)
	mux.HandleFunc("PUT /api/calculator/{kind}/{itemId}/note", s.handleUpdateNote)
	mux.HandleFunc("PUT /api/calculator/{kind}/{itemId}/name", s.handleRename)
	mux.HandleFunc("DELETE /api/calculator/{kind}/{itemId}", s.handleDeleteItem)

	mux.HandleFunc("POST /api/feedback", s.handleFeedback)

	traceMiddleware := trace.NewMiddleware(clientIP)
	var handler http.Handler = mux
	handler = auth.Middleware(verifier)(handler)
	handler = s.guard(handler)
	handler = traceMiddleware.Middleware(handler)

	s.Server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// guard applies security headers and rate limits mutating requests.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			ip := clientIP(r)
			if !s.rateLimiter.allow(ip) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", ip,
					"method", r.Method,
					"path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				respondError(w, http.StatusTooManyRequests, codeOperationFailed, "rate limit exceeded, please try again later")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cleanupCancel()
		s.rateLimiter.stop()
		s.refresher.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateAndRefresh drops the cached snapshot immediately and schedules a
// debounced background re-read, so edit bursts settle into one store read.
func (s *Server) invalidateAndRefresh(userID string) {
	s.snapshots.Invalidate(userID)
	s.refresher.Schedule(userID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snap, err := s.calculator.GetSnapshot(ctx, userID)
		if err != nil {
			slog.Warn("Snapshot refresh failed", "user_id", userID, "error", err)
			return
		}
		s.snapshots.Prime(userID, snap)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"userId":        id.UserID,
		"email":         id.Email,
	})
}

type calculatorResponse struct {
	core.Snapshot
	Summary core.Summary `json:"summary"`
}

func (s *Server) handleGetCalculator(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		// Anonymous readers get an empty calculator, not an error.
		snap := core.EmptySnapshot()
		respondJSON(w, http.StatusOK, calculatorResponse{Snapshot: snap, Summary: core.Summarize(snap)})
		return
	}

	snap, err := s.snapshots.Get(r.Context(), id.UserID, func(ctx context.Context) (core.Snapshot, error) {
		return s.calculator.GetSnapshot(ctx, id.UserID)
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, calculatorResponse{Snapshot: snap, Summary: core.Summarize(snap)})
}
