// Package api holds the request and response types of the HTTP surface.
package api

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// LoginRequest authenticates an email and password pair. The optional FCM
// token registers the device for push notifications.
type LoginRequest struct {
	Email    openapi_types.Email `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"required"`
	FcmToken string              `json:"fcm_token,omitempty"`
}

// LoginResponse is the signed-in identity.
type LoginResponse struct {
	UserId       int64  `json:"user_id"`
	DisplayName  string `json:"display_name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// NewTransaction creates one pending cash movement. Exactly one of Deposit
// and Withdrawal carries a positive amount. An empty DateTransaction defaults
// to the time of the request.
type NewTransaction struct {
	IdUser          int64   `json:"id_user" validate:"required"`
	Deposit         float64 `json:"deposit" validate:"gte=0"`
	Withdrawal      float64 `json:"withdrawal" validate:"gte=0"`
	DateTransaction string  `json:"date_transaction,omitempty"`
}

// Transaction is one cash movement as served to clients.
type Transaction struct {
	Id               int64   `json:"id"`
	IdUser           int64   `json:"id_user"`
	Deposit          float64 `json:"deposit"`
	Withdrawal       float64 `json:"withdrawal"`
	DateTransaction  string  `json:"date_transaction"`
	ApprovedByAdmin  bool    `json:"approved_by_admin"`
	ValidatedAt      *string `json:"validated_at"`
	NotificationSeen bool    `json:"notification_seen"`
}

// Balance is the folded account balance of one user.
type Balance struct {
	IdUser  int64   `json:"id_user"`
	Balance float64 `json:"balance"`
}

// ToggleFavoriteRequest flips one (user, asset) favorite membership.
type ToggleFavoriteRequest struct {
	IdUser   int64 `json:"id_user" validate:"required"`
	IdCrypto int64 `json:"id_crypto" validate:"required"`
}

// ToggleFavoriteResponse reports the membership state after the toggle.
type ToggleFavoriteResponse struct {
	IdCrypto int64 `json:"id_crypto"`
	Favorite bool  `json:"favorite"`
}

// AssetPrice is one asset's latest quote.
type AssetPrice struct {
	IdCrypto  int64   `json:"id_crypto"`
	Label     string  `json:"label"`
	Cours     float64 `json:"cours"`
	DateCours string  `json:"date_cours"`
}

// ProfileImage is the public url of an uploaded profile image.
type ProfileImage struct {
	Url string `json:"url"`
}

// CryptoTransaction is one trade in a user's crypto history.
type CryptoTransaction struct {
	Id              int64   `json:"id"`
	IdCrypto        int64   `json:"id_crypto"`
	Label           string  `json:"label"`
	IsSale          bool    `json:"is_sale"`
	IsPurchase      bool    `json:"is_purchase"`
	Quantity        float64 `json:"quantity"`
	DateTransaction string  `json:"date_transaction"`
}
