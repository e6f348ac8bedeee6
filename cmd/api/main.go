package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gigbay/marketplace-api/internal/api"
	"github.com/gigbay/marketplace-api/internal/core/service"
	"github.com/gigbay/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/gigbay/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/gigbay/marketplace-api/internal/infrastructure/db/redis"
	"github.com/gigbay/marketplace-api/internal/infrastructure/payment"
	"github.com/gigbay/marketplace-api/internal/infrastructure/queue"
	"github.com/gigbay/marketplace-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Infrastructure ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	orderRepo := mongodb.NewOrderRepository(db)
	fulfillmentRepo := mongodb.NewFulfillmentRepository(client, db)
	reviewRepo := mongodb.NewReviewRepository(client, db)
	conversationRepo := mongodb.NewConversationRepository(client, db)
	gigRepo := mongodb.NewGigRepository(db)
	authRepo := mongodb.NewAuthRepository(db)

	for _, ensure := range []func(context.Context) error{
		orderRepo.EnsureIndexes,
		fulfillmentRepo.EnsureIndexes,
		reviewRepo.EnsureIndexes,
		conversationRepo.EnsureIndexes,
		authRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	dedup := redisdb.NewDedupChecker(rdb, cfg.Redis.DedupTTL)
	gateway := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.Timeout, log)

	// --- Core services ---
	orderService := service.NewOrderService(orderRepo, gigRepo, gateway, dedup, cfg.Payment.Currency, log)
	fulfillmentService := service.NewFulfillmentService(orderRepo, fulfillmentRepo, log)
	reviewService := service.NewReviewService(reviewRepo, gigRepo, log)
	conversationService := service.NewConversationService(conversationRepo, log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Confirmation workers ---
	dispatcher := queue.NewDispatcher(cfg.Workers, orderService, log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(db, rdb, api.Services{
		Auth:         authService,
		Order:        orderService,
		Fulfillment:  fulfillmentService,
		Review:       reviewService,
		Conversation: conversationService,
	}, dispatcher, cfg.JWTSecret, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("marketplace api up")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
