package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storeforge/worker/agents"
	"storeforge/worker/cache"
	"storeforge/worker/catalog"
	"storeforge/worker/config"
	"storeforge/worker/kafka"
	"storeforge/worker/pool"
	"storeforge/worker/repository"
	"storeforge/worker/service"
)

func main() {
	godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	logger.Info("Worker Service starting",
		zap.String("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
		zap.Int("workers", cfg.WorkerCount),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping Postgres", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal("Failed to load niche catalog", zap.Error(err))
	}

	repo := repository.NewPostgresRepo(db)
	statusCache := cache.NewStatusCache(redisClient)
	dropship := agents.NewDropshipAgent(repo, cat, logger)
	stores := agents.NewStoreAgent(repo, cat, logger)
	processor := service.NewProcessor(repo, statusCache, dropship, stores, logger)

	consumer, err := kafka.NewConsumer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaGroupID)
	if err != nil {
		logger.Fatal("Failed to create Kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	workers := pool.NewWorkerPool(cfg.WorkerCount)

	handle := func(ctx context.Context, msg *kafka.TaskMessage) error {
		workers.Submit(ctx, msg, processor.Process)
		return nil
	}

	go func() {
		for {
			if err := consumer.Consume(ctx, cfg.KafkaTopic, handle); err != nil {
				logger.Error("Consumer error", zap.Error(err))
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	logger.Info("Worker started", zap.String("group", cfg.KafkaGroupID))

	<-ctx.Done()
	logger.Info("Shutting down, draining in-flight tasks")
	workers.Wait()
	logger.Info("Worker stopped")
}
