package saldo

import (
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func txn(id int64, accountID int32, amount string, at time.Duration) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		AccountID: accountID,
		Amount:    decimal.RequireFromString(amount),
		BookedAt:  t0.Add(at),
	}
}

func requireSaldo(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "saldo = %s, want %s", got, want)
}

func TestComputeBackdating(t *testing.T) {
	t.Parallel()

	t1 := txn(1, 1, "100", time.Hour)
	t2 := txn(2, 1, "-30", 3*time.Hour)
	t3 := txn(3, 1, "50", 2*time.Hour)

	all := []domain.Transaction{t1, t2, t3}

	requireSaldo(t, "100", Compute(t1, all))
	requireSaldo(t, "150", Compute(t3, all))
	requireSaldo(t, "120", Compute(t2, all))

	recomputed := Recompute(all)
	require.Equal(t, []int64{1, 3, 2}, ids(recomputed))
	requireSaldo(t, "100", recomputed[0].Saldo)
	requireSaldo(t, "150", recomputed[1].Saldo)
	requireSaldo(t, "120", recomputed[2].Saldo)

	require.ElementsMatch(t, []int64{3, 2}, Affected(t3, all))
	require.Equal(t, []int64{2}, Affected(t2, all))
}

func TestComputeIgnoresOtherAccounts(t *testing.T) {
	t.Parallel()

	target := txn(3, 1, "10", 2*time.Hour)
	all := []domain.Transaction{
		txn(1, 1, "5", time.Hour),
		txn(2, 2, "1000", time.Hour),
		target,
	}

	requireSaldo(t, "15", Compute(target, all))
}

func TestComputeTieBreaksOnID(t *testing.T) {
	t.Parallel()

	a := txn(7, 1, "10", time.Hour)
	b := txn(8, 1, "-4", time.Hour)
	all := []domain.Transaction{b, a}

	require.True(t, Precedes(a, b))
	require.False(t, Precedes(b, a))
	requireSaldo(t, "10", Compute(a, all))
	requireSaldo(t, "6", Compute(b, all))
}

func TestComputeIsIdempotent(t *testing.T) {
	t.Parallel()

	all := []domain.Transaction{
		txn(1, 1, "0.10", time.Hour),
		txn(2, 1, "0.20", 2*time.Hour),
		txn(3, 1, "-0.05", 3*time.Hour),
	}

	first := Compute(all[2], all)
	second := Compute(all[2], all)

	require.Equal(t, first.String(), second.String())
	requireSaldo(t, "0.25", first)
}

func TestRecomputeMatchesCumulativeSum(t *testing.T) {
	t.Parallel()

	const n = 50

	all := make([]domain.Transaction, n)
	for i := range all {
		all[i] = domain.Transaction{
			ID:        int64(i + 1),
			AccountID: 1,
			Amount:    randompkg.Amount(500),
			BookedAt:  t0.Add(time.Duration(randompkg.Intn(20)) * time.Hour),
		}
	}

	for _, got := range Recompute(all) {
		want := decimal.Zero

		for _, other := range all {
			if !other.BookedAt.After(got.BookedAt) && (other.BookedAt.Before(got.BookedAt) || other.ID <= got.ID) {
				want = want.Add(other.Amount)
			}
		}

		require.True(t, want.Equal(got.Saldo), "txn %d saldo = %s, want %s", got.ID, got.Saldo, want)
		require.True(t, got.Saldo.Equal(Compute(got, all)))
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	all := Recompute([]domain.Transaction{
		txn(1, 1, "100", time.Hour),
		txn(2, 1, "-30", 2*time.Hour),
	})
	require.Empty(t, Verify(all))

	all[1].Saldo = decimal.RequireFromString("99")

	got := Verify(all)
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].TransactionID)
	requireSaldo(t, "70", got[0].Computed)
	requireSaldo(t, "99", got[0].Stored)
}

func ids(txns []domain.Transaction) []int64 {
	out := make([]int64, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}

	return out
}
