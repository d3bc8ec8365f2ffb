// Package server wires the gophauth components together and runs the HTTP
// and gRPC gateways until the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/rest"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	authService *services.AuthService
	registry    *prometheus.Registry
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	rm, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, rm)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) (*App, error) {
	hasher, err := auth.NewHasher(c.PasswordHashAlgorithm)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), c.TokenIssuer, c.TokenValidityDuration)

	notifier, err := newNotifier(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("notifier init error: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := services.NewAuthService(rm.Accounts(), hasher, tokens, notifier, c, logger, metrics.New(registry))
	if err != nil {
		return nil, err
	}

	return &App{config: c, logger: logger, repomanager: rm, authService: svc, registry: registry}, nil
}

func newNotifier(ctx context.Context, c *config.Config, logger logging.Logger) (notify.Notifier, error) {
	switch c.Notifier {
	case config.NotifierLog, "":
		return notify.NewLogNotifier(logger, c.VerificationBaseURL), nil
	case config.NotifierSMTP:
		return notify.NewSMTPNotifier(c.SMTPAddr, c.MailFrom, c.SMTPUser, c.SMTPPassword, c.VerificationBaseURL), nil
	case config.NotifierS3:
		return notify.NewS3Notifier(ctx, notify.S3Config{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
		}, c.MailFrom, c.VerificationBaseURL)
	default:
		return nil, fmt.Errorf("unknown notifier %q", c.Notifier)
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.registry)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both gateways until ctx is cancelled, a signal arrives or a
// gateway fails, then drains pending notifications and closes storage.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.authService.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
