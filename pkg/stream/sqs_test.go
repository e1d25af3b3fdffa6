package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSQS hands out each queued message once, then blocks until the poller
// is cancelled.
type fakeSQS struct {
	mu       sync.Mutex
	messages []types.Message
	deleted  []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	if len(f.messages) > 0 {
		out := &sqs.ReceiveMessageOutput{Messages: f.messages}
		f.messages = nil
		f.mu.Unlock()
		return out, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, *params.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

func message(handle, body string) types.Message {
	return types.Message{ReceiptHandle: aws.String(handle), Body: aws.String(body)}
}

func collectBatches(t *testing.T, n int) (Handler, <-chan Batch) {
	t.Helper()
	out := make(chan Batch, n)
	return func(ctx context.Context, batch Batch) error {
		out <- batch
		return nil
	}, out
}

func TestSubscribeFiltersAndAcks(t *testing.T) {
	queue := &fakeSQS{messages: []types.Message{
		message("m1", `{"type":"modified","transaction":{"id":7,"id_user":1,"date_transaction":"2025-01-10 09:00:00"}}`),
		message("m2", `{"type":"added","transaction":{"id":8,"id_user":2,"date_transaction":"2025-01-10 09:00:00"}}`),
	}}
	subscriber := NewSQSSubscriber(queue, "https://queue.test/changes", nil)

	handler, batches := collectBatches(t, 2)
	sub, err := subscriber.Subscribe(context.Background(), 1, handler)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case batch := <-batches:
		assert.Equal(t, int64(1), batch.UserID)
		require.Len(t, batch.Changes, 1)
		assert.Equal(t, int64(7), batch.Changes[0].Transaction.Id)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}

	// Only m1 is acked. m2 belongs to user 2 and must stay on the queue
	// for that user's own subscription.
	assert.Eventually(t, func() bool {
		queue.mu.Lock()
		defer queue.mu.Unlock()
		return len(queue.deleted) == 1 && queue.deleted[0] == "m1"
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	queue.mu.Lock()
	defer queue.mu.Unlock()
	assert.Equal(t, []string{"m1"}, queue.deleted)
}

func TestSubscribeLeavesMixedOwnershipMessage(t *testing.T) {
	body := `[` +
		`{"type":"modified","transaction":{"id":7,"id_user":1,"date_transaction":"2025-01-10 09:00:00"}},` +
		`{"type":"added","transaction":{"id":8,"id_user":2,"date_transaction":"2025-01-10 09:00:00"}}` +
		`]`
	queue := &fakeSQS{messages: []types.Message{message("m1", body)}}
	subscriber := NewSQSSubscriber(queue, "https://queue.test/changes", nil)

	handler, batches := collectBatches(t, 1)
	sub, err := subscriber.Subscribe(context.Background(), 1, handler)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case batch := <-batches:
		require.Len(t, batch.Changes, 1)
		assert.Equal(t, int64(7), batch.Changes[0].Transaction.Id)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}

	// The message still carries user 2's change, so it must not be acked.
	time.Sleep(50 * time.Millisecond)
	queue.mu.Lock()
	defer queue.mu.Unlock()
	assert.Empty(t, queue.deleted)
}

func TestSubscribeLeavesMessageOnHandlerError(t *testing.T) {
	queue := &fakeSQS{messages: []types.Message{
		message("m1", `{"type":"modified","transaction":{"id":7,"id_user":1,"date_transaction":"2025-01-10 09:00:00"}}`),
	}}
	subscriber := NewSQSSubscriber(queue, "https://queue.test/changes", nil)

	called := make(chan struct{}, 1)
	handler := func(ctx context.Context, batch Batch) error {
		called <- struct{}{}
		return errors.New("store write failed")
	}

	sub, err := subscriber.Subscribe(context.Background(), 1, handler)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never called")
	}

	time.Sleep(50 * time.Millisecond)
	queue.mu.Lock()
	defer queue.mu.Unlock()
	assert.Empty(t, queue.deleted, "failed batch must stay on the queue for redelivery")
}

func TestSubscribeLeavesMalformedMessage(t *testing.T) {
	queue := &fakeSQS{messages: []types.Message{
		message("m1", `{"type":"modified","transaction":{"id_user":1}}`),
	}}
	subscriber := NewSQSSubscriber(queue, "https://queue.test/changes", nil)

	handler, batches := collectBatches(t, 1)
	sub, err := subscriber.Subscribe(context.Background(), 1, handler)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case <-batches:
		t.Fatal("malformed message must not reach the handler")
	case <-time.After(100 * time.Millisecond):
	}

	queue.mu.Lock()
	defer queue.mu.Unlock()
	assert.Empty(t, queue.deleted)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	queue := &fakeSQS{}
	subscriber := NewSQSSubscriber(queue, "https://queue.test/changes", nil)

	handler, _ := collectBatches(t, 1)
	sub, err := subscriber.Subscribe(context.Background(), 1, handler)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		sub.Close()
		sub.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	select {
	case <-sub.Done():
	default:
		t.Fatal("Done channel not closed after Close")
	}
}

func TestSubscribeRejectsMissingConfig(t *testing.T) {
	subscriber := NewSQSSubscriber(nil, "", nil)
	_, err := subscriber.Subscribe(context.Background(), 1, func(ctx context.Context, batch Batch) error { return nil })
	assert.Error(t, err)

	subscriber = NewSQSSubscriber(&fakeSQS{}, "https://queue.test/changes", nil)
	_, err = subscriber.Subscribe(context.Background(), 1, nil)
	assert.Error(t, err)
}
