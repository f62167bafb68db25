package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-petr/pet-ledger/internal/saldo"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, key string) string {
	t.Helper()

	dir := t.TempDir()

	content := strings.Join([]string{
		"TOKEN_TYPE=jwt",
		"TOKEN_SYMMETRIC_KEY=" + key,
		"ACCESS_TOKEN_DURATION=5m",
		"API_CLIENT_ID=ledger-cli",
		"GO_ENV=test",
	}, "\n")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestHashSecret(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "hash-secret", "s3cret")
	require.NoError(t, err)
	require.NoError(t, passpkg.Check("s3cret", strings.TrimSpace(out)))

	out, err = execute(t, "from-stdin\n", "hash-secret")
	require.NoError(t, err)
	require.NoError(t, passpkg.Check("from-stdin", strings.TrimSpace(out)))

	_, err = execute(t, "  \n", "hash-secret")
	require.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Parallel()

	key := randompkg.String(32)

	out, err := execute(t, "", "token", "--config", writeConfig(t, key))
	require.NoError(t, err)

	maker, err := tokenpkg.NewJWTMaker(key)
	require.NoError(t, err)

	payload, err := maker.VerifyToken(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, "ledger-cli", payload.ClientID)
}

func TestVerifyInMemory(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "verify", "--memory", "--config", writeConfig(t, randompkg.String(32)))
	require.NoError(t, err)
	require.Contains(t, out, "all saldi are consistent")
}

func TestSeedInMemory(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "seed", "--memory", "--months", "2", "--random", "3", "--config", writeConfig(t, randompkg.String(32)))
	require.NoError(t, err)
	require.Contains(t, out, "on account 1 (Main)")
}

func TestReport(t *testing.T) {
	t.Parallel()

	mismatches := []saldo.Mismatch{{
		TransactionID: 7,
		AccountID:     2,
		Stored:        decimal.RequireFromString("10"),
		Computed:      decimal.RequireFromString("12.5"),
	}}

	var buf bytes.Buffer
	require.Error(t, report(&buf, mismatches, false))
	require.Contains(t, buf.String(), "account 2 transaction 7: stored 10.00, computed 12.50")

	buf.Reset()
	require.NoError(t, report(&buf, mismatches, true))
	require.Contains(t, buf.String(), "fixed 1 saldi")
}
