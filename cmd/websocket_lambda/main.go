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
	"github.com/remy/cryptofolio-ledger/pkg/handlers"
	dydbstore "github.com/remy/cryptofolio-ledger/pkg/storage/dynamodb"
)

var connectionsHandler *handlers.ConnectionsHandler

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")
	if connectionsTable == "" {
		log.Fatal("DYNAMODB_CONNECTIONS_TABLE_NAME environment variable not set")
	}

	store := dydbstore.New(dynamodb.NewFromConfig(cfg), dydbstore.Tables{Connections: connectionsTable})
	connectionsHandler = handlers.NewConnectionsHandler(store, nil)
}

// HandleRequest routes websocket lifecycle events to the connection registry.
func HandleRequest(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return connectionsHandler.HandleConnect(ctx, request)
	case "$disconnect":
		return connectionsHandler.HandleDisconnect(ctx, request)
	default:
		return connectionsHandler.HandleDefault(ctx, request)
	}
}

func main() {
	lambda.Start(HandleRequest)
}
