package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/workhive/payment-integrity-service/internal/app/background"
	"github.com/workhive/payment-integrity-service/internal/config"
	httpdelivery "github.com/workhive/payment-integrity-service/internal/delivery/http"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/gateway"
	publisher "github.com/workhive/payment-integrity-service/internal/infrastructure/kafka"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/metrics"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/migrate"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/repository"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/redislock"
	"github.com/workhive/payment-integrity-service/internal/usecase/risk"
	"github.com/workhive/payment-integrity-service/internal/usecase/webhook"

	usecase "github.com/workhive/payment-integrity-service/internal/usecase/payment"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.PaymentDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Init redis lock
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisService.Addr,
		Password: cfg.RedisService.Password,
		DB:       cfg.RedisService.DB,
	})
	locker := redislock.NewRedisPaymentLocker(redisClient)

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)

	// Init repositories
	ledgerRepo := repository.NewDefaultLedgerRepository(db)
	entitlementRepo := repository.NewDefaultEntitlementRepository(db)
	planRepo := repository.NewDefaultPlanRepository(db)
	receiptRepo := repository.NewDefaultReceiptRepository(db)

	// Init webhook verifier
	verifier, err := webhook.NewVerifier(
		cfg.Gateway.Secret,
		cfg.Gateway.AllowedCIDRs,
		cfg.Gateway.Freshness(),
		receiptRepo,
	)
	if err != nil {
		log.Fatalf("failed to init webhook verifier: %v", err)
	}

	// Init risk scorer
	scorer := risk.NewScorer(cfg.Payment.RiskThreshold, cfg.Payment.RiskVelocityWindow())

	// Init gateway client
	gatewayClient := gateway.NewHTTPGatewayClient(cfg.Gateway.BaseURL, cfg.Gateway.Secret)

	paymentMetrics := metrics.NewPaymentMetrics()

	uc := usecase.NewDefaultPaymentUsecase(
		ledgerRepo,
		entitlementRepo,
		planRepo,
		receiptRepo,
		locker,
		verifier,
		scorer,
		gatewayClient,
		pub,
		paymentMetrics,
		usecase.Options{
			LockTTL:          cfg.Payment.LockTTL(),
			PendingTimeout:   cfg.Payment.PendingTimeout(),
			CompletedGrace:   cfg.Payment.CompletedGrace(),
			ReceiptRetention: cfg.Payment.ReceiptRetention(),
			EventsTopic:      cfg.KafkaService.Topic,
		},
	)

	// Background sweeps
	tasks := background.NewBackgroundTasks(uc)
	tasks.StartAll(context.Background())

	router := httpdelivery.NewRouter(uc)
	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("payment service listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}
