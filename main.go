package main

import (
	"log"

	"lumo-api/cmd"
	"lumo-api/internal/data/repository"
	"lumo-api/internal/queue"
	"lumo-api/internal/wire"
	"lumo-api/pkg/chat"
	"lumo-api/pkg/database"
	"lumo-api/pkg/token"
	"lumo-api/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis backs the catalog cache and the chat rate limiter. Both
	// degrade to pass-through when it is unavailable.
	cache, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, caching and rate limiting disabled", zap.Error(err))
		cache = nil
	} else {
		logger.Info("Redis connected successfully")
	}

	// Booking events flow through RabbitMQ; a nil publisher drops them.
	publisher, err := queue.NewPublisher(config.AMQP.URL, config.AMQP.Queue, logger)
	if err != nil {
		logger.Warn("Message broker unavailable, booking events disabled", zap.Error(err))
		publisher = nil
	} else {
		defer publisher.Close()
		go queue.StartConsumer(config.AMQP.URL, config.AMQP.Queue, logger)
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Token manager signs access tokens and mints refresh tokens
	tokens := token.NewManager(config.JWT.Secret, config.JWT.ExpiryHours, config.JWT.RefreshExpiryDays)

	// Chat relay for the cinema assistant
	relay := chat.NewClient(
		config.Chat.APIKey,
		config.Chat.BaseURL,
		config.Chat.Model,
		config.Chat.MaxTokens,
		config.Chat.Temperature,
	)

	// Wire all dependencies
	app := wire.Wiring(repos, db, tokens, relay, publisher, cache, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port, logger)
}
