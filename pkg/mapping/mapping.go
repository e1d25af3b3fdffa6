package mapping

import (
	"github.com/remy/cryptofolio-ledger/pkg/api"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/portfolio"
	"github.com/remy/cryptofolio-ledger/pkg/prices"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	var validatedAt *string
	if tx.ValidatedAt != nil {
		formatted := models.FormatTimestamp(*tx.ValidatedAt)
		validatedAt = &formatted
	}
	return &api.Transaction{
		Id:               tx.Id,
		IdUser:           tx.IdUser,
		Deposit:          tx.Deposit,
		Withdrawal:       tx.Withdrawal,
		DateTransaction:  tx.DateTransaction,
		ApprovedByAdmin:  tx.ApprovedByAdmin,
		ValidatedAt:      validatedAt,
		NotificationSeen: tx.NotificationSeen,
	}
}

// ToDomainNewTransaction converts an API NewTransaction model to a domain
// Transaction model. The id and default date are assigned by the caller.
func ToDomainNewTransaction(newTx *api.NewTransaction) *models.Transaction {
	return &models.Transaction{
		IdUser:          newTx.IdUser,
		Deposit:         newTx.Deposit,
		Withdrawal:      newTx.Withdrawal,
		DateTransaction: newTx.DateTransaction,
	}
}

// ToApiAssetPrice converts a quote from the prices service to the API model.
func ToApiAssetPrice(price *prices.AssetPrice) *api.AssetPrice {
	return &api.AssetPrice{
		IdCrypto:  price.IdCrypto,
		Label:     price.Label,
		Cours:     price.Cours,
		DateCours: price.DateCours,
	}
}

// ToApiCryptoTransaction converts a trade history entry to the API model.
func ToApiCryptoTransaction(entry *portfolio.Entry) *api.CryptoTransaction {
	return &api.CryptoTransaction{
		Id:              entry.Id,
		IdCrypto:        entry.IdCrypto,
		Label:           entry.Label,
		IsSale:          entry.IsSale,
		IsPurchase:      entry.IsPurchase,
		Quantity:        entry.Quantity,
		DateTransaction: entry.DateTransaction,
	}
}
