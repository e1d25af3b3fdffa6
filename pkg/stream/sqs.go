package stream

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI captures the subset of the SQS client the subscriber uses, so tests
// can substitute a mock.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

const (
	receiveWaitSeconds = 20
	receiveBatchSize   = 10
	// Pause between polls after a transport failure. The transport's own
	// retry and backoff sit underneath this.
	transportRetryDelay = 5 * time.Second
)

// SQSSubscriber implements the Subscriber interface over an SQS change queue.
// One poller goroutine per subscription delivers batches sequentially, so a
// handler never observes two batches concurrently.
//
// A subscription only acknowledges messages it fully owns. Events for other
// users are left on the queue for their own subscriber, so several
// subscriptions can share one queue; each foreign message is re-received
// until its owner consumes it, which makes a queue per user (or a small
// number of users per queue) the intended deployment.
type SQSSubscriber struct {
	Client   SQSAPI
	QueueURL string
	Logger   *slog.Logger
}

// NewSQSSubscriber creates a new SQSSubscriber.
func NewSQSSubscriber(client SQSAPI, queueURL string, logger *slog.Logger) *SQSSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQSSubscriber{Client: client, QueueURL: queueURL, Logger: logger}
}

// Make sure we conform to the interface
var _ Subscriber = (*SQSSubscriber)(nil)

// Subscribe opens a filtered subscription for one user.
func (s *SQSSubscriber) Subscribe(ctx context.Context, userID int64, handler Handler) (*Subscription, error) {
	if s.Client == nil || s.QueueURL == "" {
		return nil, errors.New("subscriber is not configured with a queue")
	}
	if handler == nil {
		return nil, errors.New("subscription handler must not be nil")
	}

	pollCtx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)

	go s.poll(pollCtx, userID, handler, sub)

	return sub, nil
}

func (s *SQSSubscriber) poll(ctx context.Context, userID int64, handler Handler, sub *Subscription) {
	defer close(sub.done)

	for {
		if ctx.Err() != nil {
			return
		}

		out, err := s.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.QueueURL),
			MaxNumberOfMessages: receiveBatchSize,
			WaitTimeSeconds:     receiveWaitSeconds,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.Logger.Warn("change stream receive failed, retrying", "user_id", userID, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(transportRetryDelay):
			}
			continue
		}

		for _, msg := range out.Messages {
			if msg.Body == nil {
				s.deleteMessage(ctx, msg.ReceiptHandle, userID)
				continue
			}

			changes, err := ClassifyMessage([]byte(*msg.Body))
			if err != nil {
				// Fail closed: the message stays on the queue and the
				// transport's redrive policy decides its fate.
				s.Logger.Error("rejecting malformed change message", "user_id", userID, "error", err)
				continue
			}

			batch := filterBatch(userID, changes)
			if len(batch.Changes) == 0 {
				// Another user's event. Deleting it here would destroy it
				// before its owner ever sees it; the visibility timeout
				// returns it to the queue instead.
				continue
			}

			if err := handler(ctx, batch); err != nil {
				// Leaving the message undeleted turns the failure into a
				// redelivery; the handler re-evaluates from the snapshot.
				s.Logger.Error("batch handler failed, leaving message for redelivery",
					"user_id", userID, "error", err)
				continue
			}

			if len(batch.Changes) == len(changes) {
				s.deleteMessage(ctx, msg.ReceiptHandle, userID)
			}
		}
	}
}

func (s *SQSSubscriber) deleteMessage(ctx context.Context, receiptHandle *string, userID int64) {
	if receiptHandle == nil {
		return
	}
	_, err := s.Client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.QueueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil && ctx.Err() == nil {
		// The message will come back; duplicate delivery is within contract.
		s.Logger.Warn("failed to delete processed change message", "user_id", userID, "error", err)
	}
}

func filterBatch(userID int64, changes []Change) Batch {
	batch := Batch{UserID: userID}
	for _, change := range changes {
		if change.Transaction.IdUser == userID {
			batch.Changes = append(batch.Changes, change)
		}
	}
	return batch
}
