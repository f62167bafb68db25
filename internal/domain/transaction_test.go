package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	t.Parallel()

	bookedAt := time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)
	cet := time.Date(2023, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	testCases := []struct {
		name    string
		arg     CreateTransactionParams
		want    Transaction
		wantErr error
	}{
		{
			name: "OK",
			arg:  CreateTransactionParams{Description: "  Apple salary ", Amount: "1200", Category: CategorySalary, BookedAt: &bookedAt},
			want: Transaction{
				AccountID:   1,
				Description: "Apple salary",
				Amount:      decimal.RequireFromString("1200"),
				Category:    CategorySalary,
				BookedAt:    bookedAt,
			},
		},
		{
			name: "Description80",
			arg:  CreateTransactionParams{Description: strings.Repeat("d", 80), Amount: "1", Category: CategoryRent, BookedAt: &bookedAt},
			want: Transaction{
				AccountID:   1,
				Description: strings.Repeat("d", 80),
				Amount:      decimal.RequireFromString("1"),
				Category:    CategoryRent,
				BookedAt:    bookedAt,
			},
		},
		{
			name:    "Description81",
			arg:     CreateTransactionParams{Description: strings.Repeat("d", 81), Amount: "1", Category: CategoryRent},
			wantErr: ErrInvalidDescription,
		},
		{
			name:    "BlankDescription",
			arg:     CreateTransactionParams{Description: " \t ", Amount: "1", Category: CategoryRent},
			wantErr: ErrInvalidDescription,
		},
		{
			name:    "ZeroAmount",
			arg:     CreateTransactionParams{Description: "Rent", Amount: "0", Category: CategoryRent},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "RoundsToZero",
			arg:     CreateTransactionParams{Description: "Rent", Amount: "0.004", Category: CategoryRent},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "NotNumeric",
			arg:     CreateTransactionParams{Description: "Rent", Amount: "ten", Category: CategoryRent},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "OneCent",
			arg:  CreateTransactionParams{Description: "Rent", Amount: "0.01", Category: CategoryRent, BookedAt: &bookedAt},
			want: Transaction{
				AccountID:   1,
				Description: "Rent",
				Amount:      decimal.RequireFromString("0.01"),
				Category:    CategoryRent,
				BookedAt:    bookedAt,
			},
		},
		{
			name: "MinusOneCent",
			arg:  CreateTransactionParams{Description: "Rent", Amount: "-0.01", Category: CategoryRent, BookedAt: &bookedAt},
			want: Transaction{
				AccountID:   1,
				Description: "Rent",
				Amount:      decimal.RequireFromString("-0.01"),
				Category:    CategoryRent,
				BookedAt:    bookedAt,
			},
		},
		{
			name:    "UnknownCategory",
			arg:     CreateTransactionParams{Description: "Rent", Amount: "1", Category: "Gambling"},
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "TransferCategory",
			arg:     CreateTransactionParams{Description: "Rent", Amount: "1", Category: CategoryTransfer},
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "NotUTC",
			arg:     CreateTransactionParams{Description: "Rent", Amount: "1", Category: CategoryRent, BookedAt: &cet},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewTransaction(1, tc.arg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, got)

				return
			}

			require.NoError(t, err)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("NewTransaction(1, %+v) returned unexpected diff: %s", tc.arg, diff)
			}
		})
	}
}

func TestNewTransactionDefaultsToNow(t *testing.T) {
	t.Parallel()

	got, err := NewTransaction(1, CreateTransactionParams{Description: "Lidl", Amount: "-12.5", Category: CategoryGroceries})
	require.NoError(t, err)
	require.Equal(t, time.UTC, got.BookedAt.Location())

	if diff := cmp.Diff(time.Now().UTC(), got.BookedAt, cmpopts.EquateApproxTime(time.Minute)); diff != "" {
		t.Errorf("BookedAt returned unexpected diff: %s", diff)
	}
}

func TestParseAmountRoundsHalfToEven(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want string
	}{
		{in: "0.125", want: "0.12"},
		{in: "0.135", want: "0.14"},
		{in: "-2.675", want: "-2.68"},
		{in: "10", want: "10"},
	}

	for _, tc := range testCases {
		got, err := ParseAmount(tc.in)
		require.NoError(t, err)
		require.True(t, decimal.RequireFromString(tc.want).Equal(got), "ParseAmount(%s) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestNewTransferLegs(t *testing.T) {
	t.Parallel()

	bookedAt := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("75.00")

	sender, recipient := NewTransferLegs(1, 2, "Savings", amount, bookedAt)

	require.True(t, sender.Amount.Equal(recipient.Amount.Neg()))
	require.Equal(t, CategoryTransfer, sender.Category)
	require.Equal(t, CategoryTransfer, recipient.Category)
	require.Equal(t, sender.Description, recipient.Description)
	require.Equal(t, sender.BookedAt, recipient.BookedAt)
	require.Equal(t, int32(1), sender.AccountID)
	require.Equal(t, int32(2), recipient.AccountID)
}

func TestParseTransferAmount(t *testing.T) {
	t.Parallel()

	_, err := ParseTransferAmount("-5")
	require.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ParseTransferAmount("0")
	require.ErrorIs(t, err, ErrInvalidAmount)

	got, err := ParseTransferAmount("75")
	require.NoError(t, err)
	require.Equal(t, "75", got.String())
}
