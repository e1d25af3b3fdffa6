package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/remy/cryptofolio-ledger/pkg/ledger"
	"github.com/remy/cryptofolio-ledger/pkg/push"
	dydbstore "github.com/remy/cryptofolio-ledger/pkg/storage/dynamodb"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
)

var engine *ledger.Engine

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(cfg), tablesFromEnv())

	var publisher push.Publisher = &push.NoOpPublisher{}
	if endpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); endpoint != "" {
		publisher = push.NewPublisher(store, push.NewManagementClient(cfg, endpoint), nil)
	}

	engine = ledger.NewEngine(store, publisher, nil)
}

// HandleRequest processes change stream messages. Each message carries one or
// more change records for a single user; the whole message is reprocessed on
// failure, which is safe because every step is idempotent.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		changes, err := stream.ClassifyMessage([]byte(message.Body))
		if err != nil {
			log.Printf("ERROR: failed to classify SQS message %s: %v", message.MessageId, err)
			return err
		}

		for _, batch := range batchByUser(changes) {
			if err := engine.HandleBatch(ctx, batch); err != nil {
				log.Printf("ERROR: failed to reconcile batch for user %d: %v", batch.UserID, err)
				return err
			}
		}
	}

	return nil
}

// batchByUser groups classified changes by their owning user, preserving the
// per-user delivery order.
func batchByUser(changes []stream.Change) []stream.Batch {
	var order []int64
	grouped := make(map[int64][]stream.Change)
	for _, change := range changes {
		userID := change.Transaction.IdUser
		if _, seen := grouped[userID]; !seen {
			order = append(order, userID)
		}
		grouped[userID] = append(grouped[userID], change)
	}

	batches := make([]stream.Batch, 0, len(order))
	for _, userID := range order {
		batches = append(batches, stream.Batch{UserID: userID, Changes: grouped[userID]})
	}
	return batches
}

func tablesFromEnv() dydbstore.Tables {
	tables := dydbstore.Tables{
		Transactions: os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		Connections:  os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
	}
	if tables.Transactions == "" {
		log.Fatal("DYNAMODB_TRANSACTIONS_TABLE_NAME environment variable not set")
	}
	return tables
}

func main() {
	lambda.Start(HandleRequest)
}
