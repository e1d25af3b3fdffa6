package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
)

// SQSAPI captures the subset of the SQS client the scheduler uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// maxQueueDelay is the longest delay SQS accepts on a single message.
const maxQueueDelay = 15 * time.Minute

// SQSScheduler implements the Scheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string) *SQSScheduler {
	return &SQSScheduler{Client: client, QueueURL: queueURL}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// PublishChange sends one change event to the stream queue.
func (s *SQSScheduler) PublishChange(ctx context.Context, kind stream.ChangeKind, tx *models.Transaction) error {
	return s.send(ctx, kind, tx, 0)
}

// ScheduleRevaluation sends a delayed modified event. A delay past the queue
// limit is capped; the revaluation sweep picks up whatever the cap misses.
func (s *SQSScheduler) ScheduleRevaluation(ctx context.Context, tx *models.Transaction, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	if delay > maxQueueDelay {
		delay = maxQueueDelay
	}
	return s.send(ctx, stream.Modified, tx, delay)
}

func (s *SQSScheduler) send(ctx context.Context, kind stream.ChangeKind, tx *models.Transaction, delay time.Duration) error {
	body, err := json.Marshal(stream.RawEvent{Type: string(kind), Transaction: *tx})
	if err != nil {
		return fmt.Errorf("failed to marshal change event for transaction %d: %w", tx.Id, err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	}
	if delay > 0 {
		input.DelaySeconds = int32(delay / time.Second)
	}

	if _, err := s.Client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to publish change event for transaction %d: %w", tx.Id, err)
	}

	return nil
}
