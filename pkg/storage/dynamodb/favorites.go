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

const favoriteUserIndex = "id_user-index"

// ListFavoritesByUserID retrieves all favorite records for a user.
func (s *Store) ListFavoritesByUserID(ctx context.Context, userID int64) ([]models.Favorite, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Favorites),
		IndexName:              aws.String(favoriteUserIndex),
		KeyConditionExpression: aws.String("id_user = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberN{Value: strconv.FormatInt(userID, 10)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites for user %d: %w", userID, err)
	}

	var favorites []models.Favorite
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &favorites); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorites for user %d: %w", userID, err)
	}

	return favorites, nil
}

// FindFavorites retrieves every record matching the (user, asset) pair.
func (s *Store) FindFavorites(ctx context.Context, userID, cryptoID int64) ([]models.Favorite, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Favorites),
		IndexName:              aws.String(favoriteUserIndex),
		KeyConditionExpression: aws.String("id_user = :userID"),
		FilterExpression:       aws.String("id_crypto = :cryptoID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID":   &types.AttributeValueMemberN{Value: strconv.FormatInt(userID, 10)},
			":cryptoID": &types.AttributeValueMemberN{Value: strconv.FormatInt(cryptoID, 10)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite (user %d, crypto %d): %w", userID, cryptoID, err)
	}

	var favorites []models.Favorite
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &favorites); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorite (user %d, crypto %d): %w", userID, cryptoID, err)
	}

	return favorites, nil
}

// CreateFavorite inserts a new favorite record.
func (s *Store) CreateFavorite(ctx context.Context, fav *models.Favorite) error {
	favAV, err := attributevalue.MarshalMap(fav)
	if err != nil {
		return fmt.Errorf("failed to marshal favorite: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Favorites),
		Item:                favAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to create favorite %s: %w", fav.Id, err)
	}

	return nil
}

// DeleteFavorite removes a favorite record by its id.
func (s *Store) DeleteFavorite(ctx context.Context, favID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.Tables.Favorites),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: favID},
		},
	}

	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete favorite %s: %w", favID, err)
	}

	return nil
}
