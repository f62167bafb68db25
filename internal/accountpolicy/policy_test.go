package accountpolicy

import (
	"testing"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestCheckLimit(t *testing.T) {
	t.Parallel()

	p := New(0, "")

	require.Equal(t, DefaultMaxAccounts, p.MaxAccounts)
	require.Equal(t, DefaultBaseIBAN, p.BaseIBAN)
	require.NoError(t, p.CheckLimit(4))
	require.ErrorIs(t, p.CheckLimit(5), domain.ErrAccountLimitExceeded)
	require.ErrorIs(t, p.CheckLimit(6), domain.ErrAccountLimitExceeded)
}

func TestNextIBAN(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		base     string
		existing []string
		want     string
	}{
		{
			name: "FirstAccount",
			base: DefaultBaseIBAN,
			want: "GB29000060161331920001",
		},
		{
			name:     "SkipsUsed",
			base:     DefaultBaseIBAN,
			existing: []string{"GB29000060161331920001", "GB29000060161331920002"},
			want:     "GB29000060161331920003",
		},
		{
			name: "Wraps",
			base: "GB29000060161331929999",
			want: "GB29000060161331920000",
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := New(5, tc.base).NextIBAN(tc.existing)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.NoError(t, domain.ValidateIBAN(got))
		})
	}
}

func TestNextIBANInvalidBase(t *testing.T) {
	t.Parallel()

	p := Policy{MaxAccounts: 5, BaseIBAN: "GB2900006016133192ABCD"}

	_, err := p.NextIBAN(nil)
	require.Error(t, err)
}
