package stream

import (
	"encoding/json"
	"fmt"

	"github.com/remy/cryptofolio-ledger/pkg/models"
)

// RawEvent is the wire shape of one backend change record: a type tag plus
// the full document snapshot.
type RawEvent struct {
	Type        string             `json:"type"`
	Transaction models.Transaction `json:"transaction"`
}

// ClassifyMessage parses one stream message body into classified changes.
// The body is either a single raw event or an array of them (one batch).
// Any malformed or incomplete record fails the whole message: untyped
// documents are validated here and rejected rather than propagated.
func ClassifyMessage(body []byte) ([]Change, error) {
	var raws []RawEvent
	if err := json.Unmarshal(body, &raws); err != nil {
		var single RawEvent
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, fmt.Errorf("malformed change message: %w", err)
		}
		raws = []RawEvent{single}
	}

	changes := make([]Change, 0, len(raws))
	for i, raw := range raws {
		change, err := Classify(raw)
		if err != nil {
			return nil, fmt.Errorf("change record %d: %w", i, err)
		}
		changes = append(changes, change)
	}

	return changes, nil
}

// Classify validates one raw event and tags it. No filtering or business
// logic happens here.
func Classify(raw RawEvent) (Change, error) {
	var kind ChangeKind
	switch raw.Type {
	case string(Added):
		kind = Added
	case string(Modified):
		kind = Modified
	case string(Removed):
		kind = Removed
	default:
		return Change{}, fmt.Errorf("unknown change type %q", raw.Type)
	}

	tx := raw.Transaction
	if tx.Id == 0 {
		return Change{}, fmt.Errorf("change is missing the transaction id")
	}
	if tx.IdUser == 0 {
		return Change{}, fmt.Errorf("transaction %d is missing the owning user", tx.Id)
	}
	if _, err := tx.Date(); err != nil {
		return Change{}, fmt.Errorf("transaction %d: %w", tx.Id, err)
	}

	return Change{Kind: kind, Transaction: tx}, nil
}
