package server

import (
	"context"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/service"
	inthttp "github.com/beijingsoftware/QR-Code-Database/internal/http/handler"
	"github.com/beijingsoftware/QR-Code-Database/internal/http/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Dependencies bundles everything the HTTP server hands to its handlers.
type Dependencies struct {
	Logger    *zap.Logger
	Postgres  *pgxpool.Pool
	NATS      *nats.Conn
	JetStream nats.JetStreamContext
	Links     repository.LinkRepository
	Scans     repository.ScanRepository
	Resolver  service.Resolver
	Issuer    service.Issuer
	ScanLog   *service.ScanLogger
	BaseURL   string
	QRAPIURL  string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	app := fiber.New()

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(middleware.RequestID())
	if s.deps.Logger != nil {
		s.app.Use(middleware.Recovery(s.deps.Logger))
		s.app.Use(middleware.Logger(s.deps.Logger))
	}
	s.app.Use(middleware.CORS())
}

func (s *Server) registerRoutes() {
	resolveHandler := inthttp.NewResolveHandler(inthttp.ResolveDeps{
		Logger:   s.deps.Logger,
		Resolver: s.deps.Resolver,
		Scans:    s.deps.ScanLog,
		Postgres: s.deps.Postgres,
	})
	resolveHandler.Register(s.app)

	apiHandler := inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger:   s.deps.Logger,
		Issuer:   s.deps.Issuer,
		Links:    s.deps.Links,
		Scans:    s.deps.Scans,
		BaseURL:  s.deps.BaseURL,
		QRAPIURL: s.deps.QRAPIURL,
	})
	apiHandler.Register(s.app)
}
