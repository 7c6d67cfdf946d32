package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/filedrop/internal/api/http"
	"github.com/spec-kit/filedrop/internal/api/http/handlers"
	"github.com/spec-kit/filedrop/internal/config"
	"github.com/spec-kit/filedrop/internal/events"
	"github.com/spec-kit/filedrop/internal/observability"
	"github.com/spec-kit/filedrop/internal/persistence"
	"github.com/spec-kit/filedrop/internal/repository"
	"github.com/spec-kit/filedrop/internal/service"
	"github.com/spec-kit/filedrop/internal/storage"
	"github.com/spec-kit/filedrop/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var ticketRepo repository.TicketRepository
	healthDeps := map[string]handlers.Pinger{}

	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Store.Table, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		ticketRepo, err = repository.NewPostgresTicketRepository(pg.PoolHandle(), cfg.Store.Table)
		if err != nil {
			logger.Fatal("failed to build ticket repository", zap.Error(err))
		}
		healthDeps["postgres"] = pg
	case config.StoreBackendRedis:
		rdb := persistence.NewRedis(cfg.Redis, logger)
		defer rdb.Close()

		ticketRepo = repository.NewRedisTicketRepository(rdb.Client, cfg.Store.Table)
		healthDeps["redis"] = rdb
	}

	var presigner storage.Presigner
	switch cfg.Transfer.Backend {
	case config.TransferBackendS3:
		presigner, err = storage.NewS3Presigner(cfg.Transfer, cfg.Tickets.URLTTL())
	case config.TransferBackendGateway:
		presigner, err = storage.NewGatewayPresigner(cfg.Transfer, cfg.Tickets.URLTTL())
	}
	if err != nil {
		logger.Fatal("failed to build presigner", zap.Error(err))
	}

	issuer := service.NewIssuerService(cfg.Tickets, service.IssuerDependencies{
		TicketRepo: ticketRepo,
		Presigner:  presigner,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	redeemer := service.NewRedeemerService(service.RedeemerDependencies{
		TicketRepo: ticketRepo,
		Presigner:  presigner,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthDeps)
	ticketsHandler := handlers.NewTicketsHandler(issuer, redeemer)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Tickets: ticketsHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
