// Package server exposes the BackdropKit surface: the /ws streaming endpoint
// and the REST endpoints for background enumeration, selection, and upload.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AltairaLabs/BackdropKit/background"
	"github.com/AltairaLabs/BackdropKit/logger"
	backdropmetrics "github.com/AltairaLabs/BackdropKit/metrics/prometheus"
	"github.com/AltairaLabs/BackdropKit/segment"
	"github.com/AltairaLabs/BackdropKit/session"
)

const (
	// defaultReadHeaderTimeout prevents Slowloris attacks.
	defaultReadHeaderTimeout = 10 * time.Second

	// defaultReadTimeout is the maximum duration for reading the entire
	// request, including the body. It applies to the REST surface only;
	// the WebSocket endpoint hijacks the connection before it takes effect.
	defaultReadTimeout = 30 * time.Second

	// defaultWriteTimeout is the maximum duration before timing out
	// writes of the response.
	defaultWriteTimeout = 60 * time.Second

	// defaultIdleTimeout is the maximum amount of time to wait for the
	// next request when keep-alives are enabled.
	defaultIdleTimeout = 120 * time.Second

	// defaultMaxBodySize caps upload request bodies (10 MB).
	defaultMaxBodySize int64 = 10 << 20

	// defaultShutdownGrace bounds graceful shutdown of the HTTP server.
	defaultShutdownGrace = 5 * time.Second

	// filesPrefix is the URL path serving uploaded background originals.
	filesPrefix = "/backgrounds/files"
)

// Option configures a [Server].
type Option func(*Server)

// WithSegmenter sets the segmentation collaborator. Defaults to the built-in
// luma segmenter behind a worker pool.
func WithSegmenter(seg segment.Segmenter) Option {
	return func(s *Server) { s.segmenter = seg }
}

// WithRegistry sets a custom background registry. Defaults to a registry
// seeded with the procedural set.
func WithRegistry(reg *background.Registry) Option {
	return func(s *Server) { s.backgrounds = reg }
}

// WithMaxBodySize sets the maximum allowed upload body size in bytes.
// Default: 10 MB.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) { s.maxBodySize = n }
}

// WithMetricsHandler mounts a custom /metrics handler, e.g. an exporter
// backed by an isolated registry. Defaults to the process-wide exporter.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// Server hosts the streaming and REST endpoints. Create with New, start with
// Start, and stop by canceling the context passed to Start.
type Server struct {
	cfg Config

	backgrounds *background.Registry
	store       *background.Store
	segmenter   segment.Segmenter
	conns       *session.ConnRegistry

	// defaultBackground is the process-wide default reported by the REST
	// surface and used to seed new sessions. Live sessions own their
	// selection; this value never touches them.
	defaultMu         sync.RWMutex
	defaultBackground string

	maxBodySize    int64
	metricsHandler http.Handler
	httpServer     *http.Server
}

// New assembles a Server from configuration. The backgrounds directory is
// created if needed.
func New(cfg Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:               cfg,
		conns:             session.NewConnRegistry(),
		defaultBackground: background.IDNone,
		maxBodySize:       defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.backgrounds == nil {
		s.backgrounds = background.NewRegistry()
	}
	if s.segmenter == nil {
		s.segmenter = segment.NewPool(segment.NewLuma(), cfg.SegmentWorkers)
	}
	if s.metricsHandler == nil {
		s.metricsHandler = backdropmetrics.NewExporter("").Handler()
	}

	store, err := background.NewStore(cfg.BackgroundsDir, filesPrefix, s.backgrounds)
	if err != nil {
		return nil, err
	}
	s.store = store

	if cfg.DefaultBackground != "" && s.backgrounds.Has(cfg.DefaultBackground) {
		s.defaultBackground = cfg.DefaultBackground
	}
	backdropmetrics.SetBackgroundCount(s.backgrounds.Len())

	return s, nil
}

// Backgrounds returns the background registry.
func (s *Server) Backgrounds() *background.Registry {
	return s.backgrounds
}

// Connections returns the live connection registry.
func (s *Server) Connections() *session.ConnRegistry {
	return s.conns
}

// DefaultBackground returns the process-wide default selection.
func (s *Server) DefaultBackground() string {
	s.defaultMu.RLock()
	defer s.defaultMu.RUnlock()
	return s.defaultBackground
}

// SetDefaultBackground validates and sets the process-wide default. It seeds
// future sessions only; live sessions keep their own selection.
func (s *Server) SetDefaultBackground(id string) bool {
	if !s.backgrounds.Has(id) {
		return false
	}
	s.defaultMu.Lock()
	s.defaultBackground = id
	s.defaultMu.Unlock()
	return true
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /backgrounds", s.handleBackgrounds)
	mux.HandleFunc("GET /backgrounds/list", s.handleBackgroundsList)
	mux.HandleFunc("POST /background", s.handleSetBackground)
	mux.HandleFunc("POST /upload-background", s.handleUpload)
	mux.Handle("GET "+filesPrefix+"/", s.filesHandler())
	mux.Handle("GET /metrics", s.metricsHandler)
	mux.HandleFunc("GET /ws", s.handleWS)

	return otelhttp.NewHandler(withRequestID(mux), "backdrop.server")
}

// withRequestID assigns each request an id for log correlation, honoring one
// supplied by the client.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

// filesHandler serves uploaded originals read-only from the store directory.
func (s *Server) filesHandler() http.Handler {
	fs := http.FileServer(http.Dir(s.store.BaseDir()))
	return http.StripPrefix(filesPrefix+"/", disableListing(fs))
}

// disableListing rejects directory requests so the file server only hands
// out individual uploads.
func disableListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || r.URL.Path == "" {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start listens on the configured address and serves until ctx is canceled.
// On cancellation it shuts the HTTP server down gracefully and closes every
// live streaming session.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	startCtx := ctx
	if s.cfg.Environment != "" {
		startCtx = logger.WithEnvironment(ctx, s.cfg.Environment)
	}
	logger.InfoContext(startCtx, "server started",
		"addr", s.cfg.Addr,
		"backgrounds", s.backgrounds.Len(),
		"default_background", s.DefaultBackground())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownGrace)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.conns.CloseAll()

	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
