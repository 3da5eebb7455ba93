package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"keuangan/internal/core"
	"keuangan/internal/log"
)

// LedgerService is what the HTTP layer needs from the ledger.
type LedgerService interface {
	Report(ctx context.Context, start, end core.Date) (core.Report, error)
	Records(ctx context.Context, start, end core.Date) ([]core.Record, core.DateWindow, error)
	Holds(ctx context.Context) ([]core.RawRow, error)
	Add(ctx context.Context, e core.Entry) (core.Record, error)
	Types() []string
}

// Options tunes a Server. The zero value is usable.
type Options struct {
	Logger *log.Logger
	// Ready checks the backing store for /readyz. Nil means always ready.
	Ready           func(ctx context.Context) error
	AllowedOrigins  []string
	WritesPerMinute int
	RequestTimeout  time.Duration
}

type Server struct {
	*http.Server
	router  *chi.Mux
	ledger  LedgerService
	ready   func(ctx context.Context) error
	limiter *rateLimiter
	logger  *log.Logger
	started time.Time

	suspicious int64
	appended   int64
}

func NewServer(addr string, ledger LedgerService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if opts.WritesPerMinute <= 0 {
		opts.WritesPerMinute = 30
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		router:  chi.NewRouter(),
		ledger:  ledger,
		ready:   opts.Ready,
		limiter: newRateLimiter(opts.WritesPerMinute, 5),
		logger:  logger.WithComponent(log.ComponentHTTP),
		started: time.Now(),
	}
	s.setupMiddleware(opts)
	s.setupRoutes()

	s.Server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(log.Middleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.securityHeaders)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	s.router.Use(middleware.Timeout(opts.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		MethodNotAllowedError(w.Header().Get("Allow")).Write(w)
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusNotFound, "not_found", "not found").Write(w)
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/report", s.handleReport)
		r.Get("/records", s.handleListRecords)
		r.Post("/records", s.handleCreateRecord)
		r.Get("/holds", s.handleHolds)
		r.Get("/options", s.handleOptions)
	})
}

// Start serves until Shutdown. http.ErrServerClosed is not an error.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
	return s.Server.Shutdown(ctx)
}
