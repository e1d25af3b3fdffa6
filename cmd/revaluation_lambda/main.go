package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/remy/cryptofolio-ledger/pkg/scheduler"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
	dydbstore "github.com/remy/cryptofolio-ledger/pkg/storage/dynamodb"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
)

var store storage.Storage
var sqsScheduler scheduler.Scheduler

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	sqsScheduler = scheduler.NewSQSScheduler(sqs.NewFromConfig(cfg), sqsQueueURL)

	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	if transactionsTable == "" {
		log.Fatal("DYNAMODB_TRANSACTIONS_TABLE_NAME environment variable not set")
	}
	store = dydbstore.New(dynamodb.NewFromConfig(cfg), dydbstore.Tables{Transactions: transactionsTable})
}

// HandleRequest is triggered by an EventBridge Schedule. It sweeps for
// future-dated transactions whose date has now passed and re-emits them as
// modified events so the owning user's balance is refolded. The delayed queue
// message covers delays within the queue's limit; this sweep covers the rest.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting revaluation sweep for due future-dated transactions...")

	dueTxs, err := store.ListDueFutureTransactions(ctx, time.Now())
	if err != nil {
		log.Printf("ERROR: failed to list due transactions: %v", err)
		return err
	}

	if len(dueTxs) == 0 {
		log.Println("No due future-dated transactions found.")
		return nil
	}

	log.Printf("Found %d due transactions. Re-emitting them...", len(dueTxs))

	for _, tx := range dueTxs {
		if err := sqsScheduler.PublishChange(ctx, stream.Modified, &tx); err != nil {
			log.Printf("ERROR: failed to re-emit transaction %d: %v", tx.Id, err)
			// Continue to the next transaction, don't let one failure stop the whole batch.
			continue
		}
		log.Printf("Successfully re-emitted transaction %d", tx.Id)
	}

	log.Println("Revaluation sweep finished.")
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
