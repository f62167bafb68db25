// Package saldo computes running account balances from the chronological order of transactions.
package saldo

import (
	"sort"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Precedes reports whether a is booked before b.
//
// Transactions booked at the same instant are ordered by id, so the insertion order breaks ties.
func Precedes(a, b domain.Transaction) bool {
	if !a.BookedAt.Equal(b.BookedAt) {
		return a.BookedAt.Before(b.BookedAt)
	}

	return a.ID < b.ID
}

// Compute returns the saldo of target: its own amount plus the amounts of every sibling of the
// same account that precedes it, rounded to cents half to even.
//
// siblings may contain target itself and transactions of other accounts, both are skipped.
func Compute(target domain.Transaction, siblings []domain.Transaction) decimal.Decimal {
	sum := target.Amount

	for _, s := range siblings {
		if s.AccountID != target.AccountID || s.ID == target.ID {
			continue
		}

		if Precedes(s, target) {
			sum = sum.Add(s.Amount)
		}
	}

	return sum.RoundBank(domain.AmountPlaces)
}

// Sort orders txns chronologically in place.
func Sort(txns []domain.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return Precedes(txns[i], txns[j])
	})
}

// Recompute returns a chronologically sorted copy of the transactions of one account with every
// saldo recomputed.
func Recompute(all []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(all))
	copy(out, all)

	Sort(out)

	running := decimal.Zero

	for i := range out {
		running = running.Add(out[i].Amount)
		out[i].Saldo = running.RoundBank(domain.AmountPlaces)
	}

	return out
}

// Affected returns the ids of the transactions whose saldo depends on inserted:
// inserted itself and every transaction of the same account it precedes.
func Affected(inserted domain.Transaction, all []domain.Transaction) []int64 {
	ids := []int64{inserted.ID}

	for _, t := range all {
		if t.AccountID != inserted.AccountID || t.ID == inserted.ID {
			continue
		}

		if Precedes(inserted, t) {
			ids = append(ids, t.ID)
		}
	}

	return ids
}

// Mismatch is a stored saldo that differs from the computed one.
type Mismatch struct {
	TransactionID int64           `json:"transaction_id"`
	AccountID     int32           `json:"account_id"`
	Stored        decimal.Decimal `json:"stored"`
	Computed      decimal.Decimal `json:"computed"`
}

// Verify compares every stored saldo of one account with its recomputed value.
func Verify(all []domain.Transaction) []Mismatch {
	stored := make(map[int64]decimal.Decimal, len(all))
	for _, t := range all {
		stored[t.ID] = t.Saldo
	}

	var mismatches []Mismatch

	for _, t := range Recompute(all) {
		if !stored[t.ID].Equal(t.Saldo) {
			mismatches = append(mismatches, Mismatch{
				TransactionID: t.ID,
				AccountID:     t.AccountID,
				Stored:        stored[t.ID],
				Computed:      t.Saldo,
			})
		}
	}

	return mismatches
}
