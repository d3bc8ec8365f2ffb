// Package rest exposes AuthService over HTTP with Fiber.
//
// Routes:
//
//	POST /api/auth/register     201 / 409
//	GET  /api/auth/verifyEmail  200 / 409
//	POST /api/auth/login        200 / 401
//	GET  /api/auth/me           200 / 401 (Authorization: Bearer <token>)
//	GET  /metrics
//
// Every auth response body is {"message", "success", "token"?}.
package rest

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthService is the slice of services.AuthService the gateway calls.
type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.Result, error)
	VerifyEmail(ctx context.Context, email, code string) (*services.Result, error)
	Login(ctx context.Context, username, password string) (*services.Result, error)
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

type HTTPServer struct {
	address string
	service AuthService
	logger  logging.Logger
	app     *fiber.App
}

// NewHTTPServer builds the Fiber app. gatherer may be nil to omit /metrics.
func NewHTTPServer(a string, l logging.Logger, svc AuthService, gatherer prometheus.Gatherer) *HTTPServer {
	s := &HTTPServer{
		address: a,
		service: svc,
		logger:  l.With("module", "http_gateway"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "gophauth",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	app.Use(recover.New())
	app.Use(s.requestLogger)

	api := app.Group("/api/auth")
	api.Post("/register", s.register)
	api.Get("/verifyEmail", s.verifyEmail)
	api.Post("/login", s.login)
	api.Get("/me", s.bearerAuth, s.me)

	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	s.app = app
	return s
}

// App returns the underlying Fiber app.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address)
}
