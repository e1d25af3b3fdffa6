package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/remy/cryptofolio-ledger/pkg/ledger"
	"github.com/remy/cryptofolio-ledger/pkg/push"
	dydbstore "github.com/remy/cryptofolio-ledger/pkg/storage/dynamodb"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
)

// The listener holds one user's change stream subscription open and runs the
// reconciliation engine on every delivered batch. It is the long-running
// equivalent of the reconciler lambda, useful where a persistent process is
// cheaper than per-message invocations.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	userID, err := strconv.ParseInt(os.Getenv("LISTEN_USER_ID"), 10, 64)
	if err != nil || userID <= 0 {
		log.Fatal("LISTEN_USER_ID environment variable must be a positive integer")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	if transactionsTable == "" {
		log.Fatal("DYNAMODB_TRANSACTIONS_TABLE_NAME environment variable not set")
	}
	store := dydbstore.New(dynamodb.NewFromConfig(cfg), dydbstore.Tables{
		Transactions: transactionsTable,
		Connections:  os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
	})

	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	subscriber := stream.NewSQSSubscriber(sqs.NewFromConfig(cfg), sqsQueueURL, logger)

	var publisher push.Publisher = &push.NoOpPublisher{}
	if endpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); endpoint != "" {
		publisher = push.NewPublisher(store, push.NewManagementClient(cfg, endpoint), logger)
	}

	engine := ledger.NewEngine(store, publisher, logger)

	sub, err := subscriber.Subscribe(context.Background(), userID, engine.HandleBatch)
	if err != nil {
		log.Fatalf("failed to open subscription: %v", err)
	}

	logger.Info("listening for changes", "user_id", userID)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down", "user_id", userID)
	sub.Close()
}
