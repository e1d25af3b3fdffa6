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

// GetCrypto retrieves an asset's metadata record by id.
func (s *Store) GetCrypto(ctx context.Context, cryptoID int64) (*models.Crypto, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Crypto),
		Key: map[string]types.AttributeValue{
			"id_crypto": &types.AttributeValueMemberN{Value: strconv.FormatInt(cryptoID, 10)},
		},
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto %d: %w", cryptoID, err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("crypto %d: %w", cryptoID, storage.ErrCryptoNotFound)
	}

	var crypto models.Crypto
	if err := attributevalue.UnmarshalMap(result.Item, &crypto); err != nil {
		return nil, fmt.Errorf("failed to unmarshal crypto %d: %w", cryptoID, err)
	}

	return &crypto, nil
}

// ListPricePoints retrieves the full quote time series.
func (s *Store) ListPricePoints(ctx context.Context) ([]models.PricePoint, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.Tables.CryptoCours),
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan price points: %w", err)
	}

	var points []models.PricePoint
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price points: %w", err)
	}

	return points, nil
}

// ListCryptoTransactionsByUserID retrieves a user's crypto trade history.
func (s *Store) ListCryptoTransactionsByUserID(ctx context.Context, userID int64) ([]models.CryptoTransaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.CryptoTransactions),
		IndexName:              aws.String(userIDIndex),
		KeyConditionExpression: aws.String("id_user = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberN{Value: strconv.FormatInt(userID, 10)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query crypto transactions for user %d: %w", userID, err)
	}

	var transactions []models.CryptoTransaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal crypto transactions for user %d: %w", userID, err)
	}

	return transactions, nil
}
