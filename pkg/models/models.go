package models

import (
	"time"
)

// Transaction represents one cash movement on a user's account.
// It includes dynamodbav tags for marshalling.
//
// A transaction is created client-side in a pending state (ValidatedAt nil)
// and becomes effective once an external approval actor sets ValidatedAt and
// its transaction date is no longer in the future.
type Transaction struct {
	Id               int64      `json:"id" dynamodbav:"id"`
	IdUser           int64      `json:"id_user" dynamodbav:"id_user"`
	Deposit          float64    `json:"deposit" dynamodbav:"deposit"`
	Withdrawal       float64    `json:"withdrawal" dynamodbav:"withdrawal"`
	DateTransaction  string     `json:"date_transaction" dynamodbav:"date_transaction"`
	ApprovedByAdmin  bool       `json:"approved_by_admin" dynamodbav:"approved_by_admin"`
	ValidatedAt      *time.Time `json:"validated_at" dynamodbav:"validated_at"`
	NotificationSeen bool       `json:"notification_seen" dynamodbav:"notification_seen"`
}

// Effective reports whether the transaction counts toward the account balance
// at the given instant: validated, and not dated in the future.
func (t *Transaction) Effective(now time.Time) bool {
	if t.ValidatedAt == nil {
		return false
	}
	date, err := ParseTimestamp(t.DateTransaction)
	if err != nil {
		return false
	}
	return !date.After(now)
}

// Date returns the parsed transaction date.
func (t *Transaction) Date() (time.Time, error) {
	return ParseTimestamp(t.DateTransaction)
}

// Favorite marks one asset as a favorite of one user. Existence of the record
// is the membership state; there is no separate flag.
type Favorite struct {
	Id       string `json:"id" dynamodbav:"id"`
	IdUser   int64  `json:"id_user" dynamodbav:"id_user"`
	IdCrypto int64  `json:"id_crypto" dynamodbav:"id_crypto"`
}

// CryptoTransaction represents one purchase or sale of a crypto asset.
type CryptoTransaction struct {
	Id              int64   `json:"id" dynamodbav:"id"`
	IdUser          int64   `json:"id_user" dynamodbav:"id_user"`
	IdCrypto        int64   `json:"id_crypto" dynamodbav:"id_crypto"`
	IsSale          bool    `json:"is_sale" dynamodbav:"is_sale"`
	IsPurchase      bool    `json:"is_purchase" dynamodbav:"is_purchase"`
	Quantity        float64 `json:"quantity" dynamodbav:"quantity"`
	DateTransaction string  `json:"date_transaction" dynamodbav:"date_transaction"`
}

// Crypto maps an asset id to its display label.
type Crypto struct {
	IdCrypto int64  `json:"id_crypto" dynamodbav:"id_crypto"`
	Label    string `json:"label" dynamodbav:"label"`
}

// PricePoint is one time-series quote for an asset.
type PricePoint struct {
	IdCrypto  int64   `json:"id_crypto" dynamodbav:"id_crypto"`
	Cours     float64 `json:"cours" dynamodbav:"cours"`
	DateCours string  `json:"date_cours" dynamodbav:"date_cours"`
}

// User is an account record. The password field is stored as the backend
// holds it; credential provisioning is not this client's concern.
type User struct {
	Id           int64  `json:"id" dynamodbav:"id"`
	UserEmail    string `json:"user_email" dynamodbav:"user_email"`
	UserPassword string `json:"user_password" dynamodbav:"user_password"`
	UserName     string `json:"user_name" dynamodbav:"user_name"`
	FcmToken     string `json:"fcm_token" dynamodbav:"fcm_token"`
	Pdp          string `json:"pdp" dynamodbav:"pdp"`
}

// Connection is a registered push endpoint for one signed-in user.
type Connection struct {
	ConnectionId string `dynamodbav:"connection_id"`
	IdUser       int64  `dynamodbav:"id_user"`
}
