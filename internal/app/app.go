package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/minicrm/backend/internal/adapter/pdf"
	"github.com/minicrm/backend/internal/adapter/postgres"
	clientrepo "github.com/minicrm/backend/internal/adapter/postgres/client"
	managerrepo "github.com/minicrm/backend/internal/adapter/postgres/manager"
	orgrepo "github.com/minicrm/backend/internal/adapter/postgres/organization"
	refrepo "github.com/minicrm/backend/internal/adapter/postgres/refdata"
	requestrepo "github.com/minicrm/backend/internal/adapter/postgres/request"
	seqrepo "github.com/minicrm/backend/internal/adapter/postgres/sequence"
	"github.com/minicrm/backend/internal/adapter/telegram"
	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/config"
	"github.com/minicrm/backend/internal/service/clientreg"
	"github.com/minicrm/backend/internal/service/managerauth"
	orgsvc "github.com/minicrm/backend/internal/service/organization"
	refsvc "github.com/minicrm/backend/internal/service/refdata"
	requestsvc "github.com/minicrm/backend/internal/service/request"
	"github.com/minicrm/backend/internal/transport/middleware"
	"github.com/minicrm/backend/internal/transport/rest"
)

// Run wires the application together and serves HTTP until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	clients := clientrepo.NewRepository(pool)
	managers := managerrepo.NewRepository(pool)
	requests := requestrepo.NewRepository(pool)
	refs := refrepo.NewRepository(pool)
	orgs := orgrepo.NewRepository(pool)
	sequences := seqrepo.NewRepository(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)
	verifier := auth.NewInitDataVerifier(cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL)

	bot := telegram.NewBot(cfg.Telegram, logger)
	notifier := telegram.NewNotifier(bot, logger)

	managerAuthSvc := managerauth.NewService(logger, managers, txManager, jwtManager, cfg.Auth)
	clientRegSvc := clientreg.NewService(logger, clients, cfg.Telegram.ConsentVersion)
	requestSvc := requestsvc.NewService(logger, requests, refs, sequences, txManager, notifier)
	refdataSvc := refsvc.NewService(logger, refs)
	organizationSvc := orgsvc.NewService(logger, orgs, clients)

	handlers := rest.Handlers{
		Health:        rest.NewHealthHandler(pool, BuildVersion()),
		Auth:          rest.NewAuthHandler(managerAuthSvc, logger),
		Requests:      rest.NewRequestHandler(requestSvc, organizationSvc, pdf.NewInvoiceBuilder(), logger),
		Refdata:       rest.NewRefdataHandler(refdataSvc, logger),
		Clients:       rest.NewClientHandler(clientRegSvc, logger),
		Organizations: rest.NewOrganizationHandler(organizationSvc, logger),
		WebApp:        rest.NewWebAppHandler(clientRegSvc, requestSvc, logger),
		Webhook:       rest.NewWebhookHandler(clientRegSvc, cfg.Telegram, logger),
	}

	router := rest.NewRouter(handlers, rest.RouterDeps{
		ManagerAuth: middleware.ManagerAuth(managerAuthSvc),
		ClientAuth:  middleware.ClientAuth(verifier, clientRegSvc),
	})

	base := []middleware.Middleware{
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	}
	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		base = append(base, limiter.Limit(cfg.Server.RateLimitPerMinute))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      middleware.Chain(base...)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
