package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storeforge/api/cache"
	"storeforge/api/config"
	"storeforge/api/database"
	"storeforge/api/handlers"
	"storeforge/api/kafka"
	"storeforge/api/middleware"
	"storeforge/api/repository"
	"storeforge/api/scrape"
	"storeforge/api/service"
	"storeforge/api/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	logger.Info("API Service starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	ctx := context.Background()

	pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := database.InitSchema(ctx, pool); err != nil {
		logger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	redisCache, err := database.ConnectCache(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	producer, err := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","))
	if err != nil {
		logger.Fatal("Failed to create Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}

	repo := repository.NewPostgresRepo(pool)
	statusCache := cache.NewStatusCache(redisCache)
	scraper := scrape.NewScraper(30*time.Second, cfg.ScrapeMaxBody)

	settingsService := service.NewSettingsService(repo, cfg.OpenAIKey, cfg.XAIKey)
	uploadService := service.NewUploadService(repo, settingsService)
	generateService := service.NewGenerateService(repo, repo, settingsService, scraper)
	agentService := service.NewAgentService(repo, repo, statusCache, producer, cfg.KafkaTopic)

	h := &handlers.Handlers{
		Pages:    handlers.NewPageHandler(agentService, settingsService, renderer, logger),
		Upload:   handlers.NewUploadHandler(uploadService, renderer, logger, cfg.MaxUploadSize),
		Generate: handlers.NewGenerateHandler(generateService, renderer, logger, cfg.MaxUploadSize),
		Agents:   handlers.NewAgentHandler(agentService, renderer, logger),
		Settings: handlers.NewSettingsHandler(settingsService, renderer, logger),
		Static:   web.StaticFS(),
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	handler := middleware.TraceID(middleware.Logging(logger)(middleware.Recovery(logger)(mux)))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("Server started", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}
