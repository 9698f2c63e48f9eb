package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandalio7/Serena/internal/classifier"
	"github.com/sandalio7/Serena/internal/config"
	"github.com/sandalio7/Serena/internal/database"
	httpapi "github.com/sandalio7/Serena/internal/http"
	"github.com/sandalio7/Serena/internal/logger"
	"github.com/sandalio7/Serena/internal/notify"
	"github.com/sandalio7/Serena/internal/repository"
	"github.com/sandalio7/Serena/internal/service"
	"github.com/sandalio7/Serena/internal/store"
	"github.com/sandalio7/Serena/internal/taxonomy"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "serena-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	// Taxonomy is reference data: seed idempotently on boot, then load the
	// read-only store shared by all requests.
	taxonomyRepo := repository.NewPostgresTaxonomyRepository(db)
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := taxonomyRepo.EnsureSeeded(bootCtx); err != nil {
		bootCancel()
		log.Fatal("taxonomy seeding failed", zap.Error(err))
	}
	categories, subcategories, err := taxonomyRepo.LoadAll(bootCtx)
	bootCancel()
	if err != nil {
		log.Fatal("taxonomy load failed", zap.Error(err))
	}
	taxonomyStore := taxonomy.NewStore(categories, subcategories)

	patientsRepo := repository.NewPostgresPatientsRepository(db)
	messagesRepo := repository.NewPostgresMessagesRepository(db)
	valuesRepo := repository.NewPostgresValuesRepository(db)

	var redisClient *redis.Client
	var kv store.KV
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(redisClient)
		log.Info("summary cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var notifier service.Notifier
	if cfg.Twilio.Enabled {
		notifier = notify.NewWhatsAppClient(cfg.Twilio, log)
		log.Info("outbound confirmations enabled")
	}

	cls := classifier.New(cfg.Classifier, log)
	ingest := service.NewIngestService(patientsRepo, messagesRepo, taxonomyStore, cls, notifier, log)
	financial := service.NewFinancialService(patientsRepo, messagesRepo, valuesRepo, taxonomyStore, kv, log)
	health := service.NewHealthService(patientsRepo, messagesRepo, valuesRepo, log)

	router := httpapi.NewRouter(log)
	router.RegisterWebhookRoutes(httpapi.NewWebhookHandler(ingest, cfg.Webhook.VerifyToken, log))
	router.RegisterFinancialRoutes(httpapi.NewFinancialHandler(financial, log))
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(health, log))
	router.RegisterPatientRoutes(httpapi.NewPatientHandler(patientsRepo, log))
	router.RegisterHealthcheck()

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server stopped unexpectedly", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
