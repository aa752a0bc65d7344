package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/poe-manager/backend/internal/attachments"
	"github.com/poe-manager/backend/internal/config"
	"github.com/poe-manager/backend/internal/events"
	apphttp "github.com/poe-manager/backend/internal/http"
	"github.com/poe-manager/backend/internal/http/handlers"
	"github.com/poe-manager/backend/internal/repositories"
	"github.com/poe-manager/backend/internal/services"
	"github.com/poe-manager/backend/internal/state"
	"github.com/poe-manager/backend/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence backend
	var (
		st  store.Store
		rdb *redis.Client
		err error
	)
	switch cfg.StoreBackend {
	case config.StoreBackendRedis:
		var rs *store.RedisStore
		rs, err = store.NewRedisStore(ctx, cfg.RedisURL, log)
		if err == nil {
			st = rs
			rdb = rs.Client()
		}
	case config.StoreBackendPostgres:
		st, err = store.NewPostgresStore(ctx, cfg.PostgresDSN, log)
	default:
		st, err = store.NewFileStore(cfg.DataDir)
	}
	if err != nil {
		log.Fatal("failed to open store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer st.Close()

	// Application state
	app := state.New(st, log)
	if err := app.Load(ctx); err != nil {
		log.Fatal("failed to load application state", zap.Error(err))
	}

	// Events: pub/sub rides on redis when it is available, otherwise the
	// process runs without a live feed.
	var (
		publisher  events.Publisher = events.NopPublisher{}
		subscriber events.Subscriber
	)
	if rdb != nil {
		publisher = events.NewRedisPublisher(rdb, log)
		subscriber = events.NewRedisSubscriber(rdb, log)
	}

	// Repositories
	auditRepo := repositories.NewAuditRepo(app)
	userRepo := repositories.NewUserRepo(app, auditRepo)
	poeRepo := repositories.NewPoeRepo(app, auditRepo)

	// Services
	authService := services.NewAuthService(app, userRepo, auditRepo, cfg, log)
	poeService := services.NewPoeService(poeRepo, auditRepo, publisher, cfg, log)
	userService := services.NewUserService(userRepo, auditRepo, log)
	reviewClient := services.NewReviewClient(cfg.ReviewServiceURL, cfg.ReviewTimeout, log)
	resolver := attachments.NewResolver(cfg.FetchTimeoutMS, cfg.FetchMaxRetries, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	poeHandler := handlers.NewPoeHandler(poeService, authService, log)
	auditHandler := handlers.NewAuditHandler(auditRepo, log)
	reviewHandler := handlers.NewReviewHandler(poeService, reviewClient, resolver, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(fiberApp, cfg, log, rdb, authHandler, userHandler, poeHandler, auditHandler, reviewHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = fiberApp.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := fiberApp.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
