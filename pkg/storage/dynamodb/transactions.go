package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
)

const userIDIndex = "id_user-index"

// CreateTransaction stores a new pending transaction record.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Transactions),
		Item:                txAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("transaction %d: %w", tx.Id, storage.ErrTransactionExists)
		}
		return fmt.Errorf("failed to create transaction %d: %w", tx.Id, err)
	}

	return nil
}

// GetTransaction retrieves a transaction from DynamoDB by its ID.
func (s *Store) GetTransaction(ctx context.Context, txID int64) (*models.Transaction, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(txID, 10)},
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Transactions),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %d: %w", txID, err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("transaction %d: %w", txID, storage.ErrTransactionNotFound)
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction %d: %w", txID, err)
	}

	return &tx, nil
}

// ListTransactionsByUserID retrieves all transactions for a specific user.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID int64) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transactions),
		IndexName:              aws.String(userIDIndex),
		KeyConditionExpression: aws.String("id_user = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberN{Value: strconv.FormatInt(userID, 10)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for user %d: %w", userID, err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions for user %d: %w", userID, err)
	}

	return transactions, nil
}

// MarkNotificationSeen sets notification_seen on the transaction, conditional
// on the flag still being false. Under concurrent delivery of the same
// validation event, exactly one writer succeeds; the others observe
// ErrNotificationAlreadySeen.
func (s *Store) MarkNotificationSeen(ctx context.Context, txID int64) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Transactions),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(txID, 10)},
		},
		UpdateExpression:    aws.String("SET notification_seen = :seen"),
		ConditionExpression: aws.String("notification_seen = :unseen"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":seen":   &types.AttributeValueMemberBOOL{Value: true},
			":unseen": &types.AttributeValueMemberBOOL{Value: false},
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("transaction %d: %w", txID, storage.ErrNotificationAlreadySeen)
		}
		return fmt.Errorf("failed to mark notification seen on transaction %d: %w", txID, err)
	}

	return nil
}

// ListDueFutureTransactions retrieves validated transactions dated between one
// sweep window ago and now. These were excluded from balances while their date
// was in the future and need a fresh evaluation event.
func (s *Store) ListDueFutureTransactions(ctx context.Context, now time.Time) ([]models.Transaction, error) {
	cutoff := models.FormatTimestamp(now)

	// No notification_seen clause: a validated transaction whose seen-write
	// never landed must still be re-emitted, and re-emitting is idempotent.
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.Tables.Transactions),
		FilterExpression: aws.String("attribute_type(validated_at, :notNull) AND date_transaction <= :cutoff"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":notNull": &types.AttributeValueMemberS{Value: "S"},
			":cutoff":  &types.AttributeValueMemberS{Value: cutoff},
		},
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for due future transactions: %w", err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal due future transactions: %w", err)
	}

	// The scan filter cannot compare timestamps against the sweep window start,
	// so drop anything that was already effective well before now.
	due := transactions[:0]
	for _, tx := range transactions {
		date, err := tx.Date()
		if err != nil {
			continue
		}
		if now.Sub(date) <= dueWindow {
			due = append(due, tx)
		}
	}

	return due, nil
}

// dueWindow bounds how far back the revaluation sweep looks; it must be at
// least the sweep schedule interval.
const dueWindow = time.Hour
