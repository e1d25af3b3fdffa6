// Package ledger contains the reconciliation core: the notification
// reconciler and the balance aggregator, composed per batch by the Engine.
package ledger

import (
	"time"

	"github.com/remy/cryptofolio-ledger/pkg/models"
)

// Balance folds the complete visible transaction set down to the account
// balance: sum of deposits minus sum of withdrawals over effective
// transactions (validated, not dated in the future as of now).
//
// This is always a full recomputation from the authoritative snapshot set,
// never an incremental patch. Tracking which prior events already contributed
// to a running total breaks down under reconnect and replay; refolding the
// current set cannot diverge from the store.
func Balance(transactions []models.Transaction, now time.Time) float64 {
	var totalDeposit, totalWithdrawal float64
	for i := range transactions {
		if !transactions[i].Effective(now) {
			continue
		}
		totalDeposit += transactions[i].Deposit
		totalWithdrawal += transactions[i].Withdrawal
	}
	return totalDeposit - totalWithdrawal
}
