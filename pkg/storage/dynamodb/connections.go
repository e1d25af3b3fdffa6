package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remy/cryptofolio-ledger/pkg/models"
)

const connectionUserIndex = "id_user-index"

// AddConnection registers a push endpoint for a signed-in user.
func (s *Store) AddConnection(ctx context.Context, conn *models.Connection) error {
	connAV, err := attributevalue.MarshalMap(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.Connections),
		Item:      connAV,
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to add connection %s: %w", conn.ConnectionId, err)
	}

	return nil
}

// RemoveConnection deregisters a push endpoint.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.Tables.Connections),
		Key: map[string]types.AttributeValue{
			"connection_id": &types.AttributeValueMemberS{Value: connectionID},
		},
	}

	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to remove connection %s: %w", connectionID, err)
	}

	return nil
}

// GetConnectionsByUserID retrieves a user's registered push endpoints.
func (s *Store) GetConnectionsByUserID(ctx context.Context, userID int64) ([]string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Connections),
		IndexName:              aws.String(connectionUserIndex),
		KeyConditionExpression: aws.String("id_user = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberN{Value: strconv.FormatInt(userID, 10)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections for user %d: %w", userID, err)
	}

	var conns []models.Connection
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &conns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connections for user %d: %w", userID, err)
	}

	ids := make([]string, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.ConnectionId)
	}

	return ids, nil
}
