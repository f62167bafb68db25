package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func txn(id int64, booked string, amount, saldo, category string) domain.Transaction {
	at, err := time.Parse(time.RFC3339, booked)
	if err != nil {
		panic(err)
	}

	return domain.Transaction{
		ID:          id,
		AccountID:   1,
		Description: "Item " + category,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		BookedAt:    at,
		Saldo:       decimal.RequireFromString(saldo),
	}
}

func TestMonthlySummary(t *testing.T) {
	t.Parallel()

	txns := []domain.Transaction{
		txn(1, "2023-11-01T09:00:00Z", "1200", "1200", domain.CategorySalary),
		txn(2, "2023-11-03T09:00:00Z", "-600", "600", domain.CategoryRent),
		txn(3, "2024-02-10T09:00:00Z", "-50.5", "549.5", domain.CategoryGroceries),
	}

	got := MonthlySummary(txns)

	d := decimal.RequireFromString
	want := []Month{
		{Year: 2023, Month: time.November, Income: d("1200"), Expenses: d("-600"), Total: d("600")},
		{Year: 2023, Month: time.December},
		{Year: 2024, Month: time.January},
		{Year: 2024, Month: time.February, Expenses: d("-50.5"), Total: d("-50.5")},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MonthlySummary mismatch (-want +got):\n%s", diff)
	}

	require.Empty(t, MonthlySummary(nil))
}

func TestExpensesByCategory(t *testing.T) {
	t.Parallel()

	txns := []domain.Transaction{
		txn(1, "2023-11-01T09:00:00Z", "1200", "1200", domain.CategorySalary),
		txn(2, "2023-11-03T09:00:00Z", "-600", "600", domain.CategoryRent),
		txn(3, "2023-11-04T09:00:00Z", "-20", "580", domain.CategoryGroceries),
		txn(4, "2023-11-05T09:00:00Z", "-30.25", "549.75", domain.CategoryGroceries),
		txn(5, "2023-11-06T09:00:00Z", "-100", "449.75", domain.CategoryTransfer),
	}

	got := ExpensesByCategory(txns)
	require.Len(t, got, len(domain.UserCategories))

	byCategory := make(map[string]decimal.Decimal)
	for i, c := range got {
		require.Equal(t, domain.UserCategories[i], c.Category)
		byCategory[c.Category] = c.Expenses
	}

	require.True(t, byCategory[domain.CategoryRent].Equal(decimal.NewFromInt(-600)))
	require.True(t, byCategory[domain.CategoryGroceries].Equal(decimal.RequireFromString("-50.25")))
	require.True(t, byCategory[domain.CategorySalary].IsZero())
	require.True(t, byCategory[domain.CategoryNightOut].IsZero())
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	txns := []domain.Transaction{
		txn(7, "2023-11-01T09:00:00Z", "1200", "1200", domain.CategorySalary),
		txn(8, "2023-11-03T09:30:00Z", "-600.5", "599.5", domain.CategoryRent),
	}
	txns[1].Description = "Rent, November"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txns))

	want := strings.Join([]string{
		"id,date_booked,description,category,amount,saldo",
		"7,2023-11-01T09:00:00Z,Item Salary,Salary,1200.00,1200.00",
		`8,2023-11-03T09:30:00Z,"Rent, November",Rent,-600.50,599.50`,
		"",
	}, "\n")

	require.Equal(t, want, buf.String())
}
