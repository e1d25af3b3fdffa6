package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
)

// ManagementAPI captures the API Gateway management call the publisher uses.
type ManagementAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// DefaultPublisher sends messages to every connection a user has registered.
type DefaultPublisher struct {
	connections storage.ConnectionStore
	client      ManagementAPI
	logger      *slog.Logger
}

// NewPublisher creates a new DefaultPublisher.
func NewPublisher(connections storage.ConnectionStore, client ManagementAPI, logger *slog.Logger) *DefaultPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultPublisher{connections: connections, client: client, logger: logger}
}

// NewManagementClient builds the API Gateway management client for an endpoint.
func NewManagementClient(cfg aws.Config, apiEndpoint string) *apigatewaymanagementapi.Client {
	return apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})
}

// Make sure we conform to the interface
var _ Publisher = (*DefaultPublisher)(nil)

// Publish sends the message to all of the user's registered connections.
// Gone connections are removed; other delivery failures are logged and
// skipped, since the next recomputation supersedes this message anyway.
func (p *DefaultPublisher) Publish(ctx context.Context, userID int64, message Message) error {
	connectionIDs, err := p.connections.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get connections for user %d: %w", userID, err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})

		if err != nil {
			var goneErr *apigwtypes.GoneException
			if errors.As(err, &goneErr) {
				p.logger.Info("stale connection found, deleting", "connection_id", connectionID)
				if err := p.connections.RemoveConnection(ctx, connectionID); err != nil {
					p.logger.Error("failed to delete stale connection", "error", err)
				}
			} else {
				p.logger.Error("failed to post to connection", "connection_id", connectionID, "error", err)
			}
		}
	}

	return nil
}
