package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMessage(t *testing.T) {
	t.Run("single event", func(t *testing.T) {
		body := `{"type":"modified","transaction":{"id":7,"id_user":1,"deposit":100,"withdrawal":0,"date_transaction":"2025-01-10 09:00:00","validated_at":"2025-01-11T08:00:00Z","notification_seen":false}}`

		changes, err := ClassifyMessage([]byte(body))
		assert.NoError(t, err)
		assert.Len(t, changes, 1)
		assert.Equal(t, Modified, changes[0].Kind)
		assert.Equal(t, int64(7), changes[0].Transaction.Id)
		assert.NotNil(t, changes[0].Transaction.ValidatedAt)
	})

	t.Run("batch preserves order", func(t *testing.T) {
		body := `[
			{"type":"added","transaction":{"id":1,"id_user":1,"date_transaction":"2025-01-10 09:00:00"}},
			{"type":"modified","transaction":{"id":2,"id_user":1,"date_transaction":"2025-01-10 10:00:00"}},
			{"type":"removed","transaction":{"id":3,"id_user":1,"date_transaction":"2025-01-10 11:00:00"}}
		]`

		changes, err := ClassifyMessage([]byte(body))
		assert.NoError(t, err)
		assert.Len(t, changes, 3)
		assert.Equal(t, []ChangeKind{Added, Modified, Removed},
			[]ChangeKind{changes[0].Kind, changes[1].Kind, changes[2].Kind})
	})

	t.Run("unknown type fails the message", func(t *testing.T) {
		body := `{"type":"mutated","transaction":{"id":1,"id_user":1,"date_transaction":"2025-01-10 09:00:00"}}`

		_, err := ClassifyMessage([]byte(body))
		assert.ErrorContains(t, err, "unknown change type")
	})

	t.Run("missing id fails closed", func(t *testing.T) {
		body := `{"type":"added","transaction":{"id_user":1,"date_transaction":"2025-01-10 09:00:00"}}`

		_, err := ClassifyMessage([]byte(body))
		assert.ErrorContains(t, err, "missing the transaction id")
	})

	t.Run("missing owner fails closed", func(t *testing.T) {
		body := `{"type":"added","transaction":{"id":4,"date_transaction":"2025-01-10 09:00:00"}}`

		_, err := ClassifyMessage([]byte(body))
		assert.ErrorContains(t, err, "missing the owning user")
	})

	t.Run("bad date fails closed", func(t *testing.T) {
		body := `{"type":"added","transaction":{"id":4,"id_user":1,"date_transaction":"10/01/2025"}}`

		_, err := ClassifyMessage([]byte(body))
		assert.Error(t, err)
	})

	t.Run("not json at all", func(t *testing.T) {
		_, err := ClassifyMessage([]byte("not-json"))
		assert.ErrorContains(t, err, "malformed change message")
	})

	t.Run("one bad record fails the whole batch", func(t *testing.T) {
		body := `[
			{"type":"added","transaction":{"id":1,"id_user":1,"date_transaction":"2025-01-10 09:00:00"}},
			{"type":"added","transaction":{"id_user":1,"date_transaction":"2025-01-10 09:00:00"}}
		]`

		_, err := ClassifyMessage([]byte(body))
		assert.ErrorContains(t, err, "change record 1")
	})
}
