package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/remy/cryptofolio-ledger/pkg/auth"
	"github.com/remy/cryptofolio-ledger/pkg/favorites"
	"github.com/remy/cryptofolio-ledger/pkg/handlers"
	"github.com/remy/cryptofolio-ledger/pkg/media"
	appmiddleware "github.com/remy/cryptofolio-ledger/pkg/middleware"
	"github.com/remy/cryptofolio-ledger/pkg/portfolio"
	"github.com/remy/cryptofolio-ledger/pkg/prices"
	"github.com/remy/cryptofolio-ledger/pkg/scheduler"
	"github.com/remy/cryptofolio-ledger/pkg/session"
	dydbstore "github.com/remy/cryptofolio-ledger/pkg/storage/dynamodb"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// AWS Session
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	store := dydbstore.New(dbClient, tablesFromEnv())

	// SQS Client and Scheduler
	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	sqsScheduler := scheduler.NewSQSScheduler(sqs.NewFromConfig(cfg), sqsQueueURL)

	// Optional Redis price cache.
	var cache *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cache = redis.NewClient(&redis.Options{Addr: addr})
	}

	sessionPath := os.Getenv("SESSION_FILE")
	if sessionPath == "" {
		sessionPath = ".session.json"
	}
	sessions := session.NewFileStore(sessionPath)

	// Optional Cloudinary media storage. The profile image routes answer 503
	// when it is not configured.
	var mediaStore handlers.MediaStore
	if cloud := os.Getenv("CLOUDINARY_CLOUD_NAME"); cloud != "" {
		mediaStore = media.NewClient(cloud, os.Getenv("CLOUDINARY_UPLOAD_PRESET"))
	}

	handler := handlers.NewApiHandler(
		store,
		sqsScheduler,
		auth.NewService(store, sessions, logger),
		favorites.NewService(store),
		prices.NewService(store, cache, time.Minute, logger),
		portfolio.NewService(store, logger),
		mediaStore,
		logger,
	)

	router := chi.NewRouter()
	router.Use(appmiddleware.NewStructuredLogger(logger))
	router.Group(handler.Routes)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	logger.Info("starting server", "port", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func tablesFromEnv() dydbstore.Tables {
	tables := dydbstore.Tables{
		Transactions:       os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		CryptoTransactions: os.Getenv("DYNAMODB_CRYPTO_TRANSACTIONS_TABLE_NAME"),
		Favorites:          os.Getenv("DYNAMODB_FAVORITES_TABLE_NAME"),
		Crypto:             os.Getenv("DYNAMODB_CRYPTO_TABLE_NAME"),
		CryptoCours:        os.Getenv("DYNAMODB_CRYPTO_COURS_TABLE_NAME"),
		Users:              os.Getenv("DYNAMODB_USERS_TABLE_NAME"),
		Connections:        os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
	}
	if tables.Transactions == "" || tables.Users == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}
	return tables
}
