package push

// MessageType defines the type of a push message.
type MessageType string

const (
	// MessageTypeBalanceUpdate carries a freshly recomputed account balance.
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"
	// MessageTypeTransactionValidated announces a pending transaction that
	// just became validated.
	MessageTypeTransactionValidated MessageType = "transactionValidated"
)

// Message represents a generic push message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// BalanceUpdatePayload is the payload for a balanceUpdate message.
type BalanceUpdatePayload struct {
	UserID  int64   `json:"user_id"`
	Balance float64 `json:"balance"`
}

// TransactionValidatedPayload is the payload for a transactionValidated message.
// Its field order is part of the client contract; events for one transaction
// are published in validation order.
type TransactionValidatedPayload struct {
	UserID        int64   `json:"user_id"`
	TransactionID int64   `json:"transaction_id"`
	Deposit       float64 `json:"deposit"`
	Withdrawal    float64 `json:"withdrawal"`
}
