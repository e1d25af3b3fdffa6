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
	"github.com/remy/cryptofolio-ledger/pkg/storage"
)

const userEmailIndex = "user_email-index"

// GetUserByCredentials retrieves the user matching the email/password pair.
// The password comparison happens in the query filter because that is the
// contract the backing collection exposes.
func (s *Store) GetUserByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Users),
		IndexName:              aws.String(userEmailIndex),
		KeyConditionExpression: aws.String("user_email = :email"),
		FilterExpression:       aws.String("user_password = :password"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email":    &types.AttributeValueMemberS{Value: email},
			":password": &types.AttributeValueMemberS{Value: password},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by credentials: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, storage.ErrUserNotFound
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(result.Items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// UpdateFcmToken stores the device's current push token on the user record.
func (s *Store) UpdateFcmToken(ctx context.Context, userID int64, token string) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Users),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(userID, 10)},
		},
		UpdateExpression:    aws.String("SET fcm_token = :token"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("failed to update fcm token for user %d: %w", userID, err)
	}

	return nil
}
