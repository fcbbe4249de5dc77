package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-publisher-platform/internal/ai"
	"social-publisher-platform/internal/config"
	"social-publisher-platform/internal/logger"
	"social-publisher-platform/internal/queue"
	"social-publisher-platform/internal/scrape"
	"social-publisher-platform/internal/store"
	"social-publisher-platform/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(context.Background())

	contentStore := store.NewContentStore(mongoClient.Database(cfg.DBName))

	// Initialize Gemini client
	geminiClient, err := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiTier)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	defer geminiClient.Close()

	generator := services.NewContentGenerator(geminiClient, scrape.NewFetcher(), cfg.ImageAPIURL)

	// Redis options for Asynq
	addr, password, redisDB := cfg.AsynqRedisAddr()
	redisOpt := asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       redisDB,
	}

	// Create Asynq server
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	// Create task processor
	processor := queue.NewTaskProcessor(generator, contentStore)

	// Create mux and register handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskGenerateContent, processor.HandleGenerateContent)

	logger.Info("starting worker", "redis", redisOpt.Addr, "concurrency", 10)

	// Start the server
	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
