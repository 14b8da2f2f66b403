package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dompet/internal/backend"
	"dompet/internal/core"
	"dompet/internal/log"
	"dompet/internal/middleware/ratelimit"
	"dompet/internal/middleware/security"
	"dompet/internal/middleware/trace"
	appweb "dompet/web"
)

// storeTimeout bounds every store call made while serving a request.
const storeTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Addr string

	// Store is nil when the backend failed to start; StoreErr says why.
	Store    backend.Backend
	StoreErr error

	Logger         *log.Logger
	Location       *time.Location
	PaymentMethods []string
	SalesChannels  []string
	RateLimitRPM   int
	FlashTTL       time.Duration

	// Now is the clock; tests pin it.
	Now func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	store     backend.Backend
	storeErr  error
	logger    *log.Logger
	loc       *time.Location
	now       func() time.Time
	methods   []string
	channels  []string
	flashes   *flashStore
	limiter   *ratelimit.Limiter
	started   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) (*Server, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Store == nil && opts.StoreErr == nil {
		opts.StoreErr = errors.New("no store configured")
	}

	s := &Server{
		templates: t,
		store:     opts.Store,
		storeErr:  opts.StoreErr,
		logger:    opts.Logger,
		loc:       opts.Location,
		now:       opts.Now,
		methods:   opts.PaymentMethods,
		channels:  opts.SalesChannels,
		flashes:   newFlashStore(opts.FlashTTL),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitRPM}),
		started:   opts.Now(),
	}
	if opts.Store != nil {
		s.storeErr = nil
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(trace.NewMiddleware(s.logger, clientIP).Middleware)
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	if opts.RateLimitRPM > 0 {
		r.Use(s.limiter.Middleware(clientIP, nil))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleExpensesPage)
	r.Post("/expenses", s.handleCreateExpense)
	r.Post("/expenses/{row}/delete", s.handleDeleteExpense)

	r.Get("/incomes", s.handleIncomesPage)
	r.Post("/incomes", s.handleCreateIncome)
	r.Post("/incomes/{row}/delete", s.handleDeleteIncome)

	r.Route("/api", func(r chi.Router) {
		r.Get("/expenses", s.handleAPIListExpenses)
		r.Post("/expenses", s.handleAPICreateExpense)
		r.Delete("/expenses/{row}", s.handleAPIDeleteExpense)
		r.Get("/incomes", s.handleAPIListIncomes)
		r.Post("/incomes", s.handleAPICreateIncome)
		r.Delete("/incomes/{row}", s.handleAPIDeleteIncome)
		r.Get("/summary", s.handleAPISummary)
	})

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// today is the current calendar day in the configured zone.
func (s *Server) today() core.Date {
	return core.Today(s.now(), s.loc)
}

func (s *Server) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}
