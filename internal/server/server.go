package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hongminglow/eventus-be/internal/access"
	"github.com/hongminglow/eventus-be/internal/auth"
	"github.com/hongminglow/eventus-be/internal/config"
	"github.com/hongminglow/eventus-be/internal/domain/accounts"
	"github.com/hongminglow/eventus-be/internal/domain/admin"
	"github.com/hongminglow/eventus-be/internal/domain/events"
	"github.com/hongminglow/eventus-be/internal/domain/tickets"
	"github.com/hongminglow/eventus-be/internal/http/handlers"
	"github.com/hongminglow/eventus-be/internal/http/respond"
	"github.com/hongminglow/eventus-be/internal/metrics"
	"github.com/hongminglow/eventus-be/internal/middleware"
	"github.com/hongminglow/eventus-be/internal/notify"
	"github.com/hongminglow/eventus-be/internal/storage"
	"github.com/hongminglow/eventus-be/internal/upload"
)

// Deps are the long-lived collaborators the HTTP server is built from.
type Deps struct {
	Store   storage.Store
	Sender  notify.Sender
	Uploads *upload.Store
	// DB is pinged by /health when set.
	DB     handlers.Pinger
	Logger zerolog.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner   *http.Server
	handler http.Handler
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hasher := auth.NewHasher(cfg.BcryptCost)
	errs := handlers.NewErrorResponder(cfg.IsDevelopment())
	authn := access.NewAuthenticator(tokens, deps.Store, errs.Write)

	accountsSvc := accounts.NewService(deps.Store, tokens, hasher, deps.Logger)
	eventsSvc := events.NewService(deps.Store, deps.Store, deps.Sender, cfg.NotifyTimeout, deps.Logger)
	ticketsSvc := tickets.NewService(deps.Store, deps.Store, deps.Logger)
	adminSvc := admin.NewService(deps.Store, deps.Store, deps.Logger)

	users := handlers.NewUserHandler(accountsSvc, adminSvc, errs)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(deps.Logger),
		middleware.RequestLogging,
		chimw.Recoverer,
		metrics.HTTPMiddleware,
		middleware.CORS(cfg.CORSOrigins),
	)

	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(time.Now(), deps.DB))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	if deps.Uploads != nil {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.Uploads.Dir()))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) { handlers.NewAuthHandler(accountsSvc, errs).Routes(r, authn) })
		r.Route("/events", func(r chi.Router) { handlers.NewEventHandler(eventsSvc, errs).Routes(r, authn) })
		r.Route("/tickets", func(r chi.Router) { handlers.NewTicketHandler(ticketsSvc, errs).Routes(r, authn) })
		r.Route("/users", func(r chi.Router) { users.Routes(r, authn) })
		r.Route("/admin", func(r chi.Router) { handlers.NewAdminHandler(adminSvc, users, errs).Routes(r, authn) })
		if deps.Uploads != nil {
			r.Route("/upload", func(r chi.Router) { handlers.NewUploadHandler(deps.Uploads, errs).Routes(r, authn) })
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer, handler: r}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
