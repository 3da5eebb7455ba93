package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keuangan/internal/core"
)

const ledgerCSV = `Tanggal,Deskripsi,Kategori,Tipe,Jumlah,Saldo
01/01/2024,Dana awal,Pemasukan,Internal,100,100
03/01/2024,Snack rapat,Pengeluaran,Konsumsi,30,70
`

const holdsCSV = `Nama,Jumlah
Hibah,"5,000"
`

// setupDataDir points the memory backend at a seeded data directory.
func setupDataDir(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "AMQP_URL",
		"GOOGLE_SPREADSHEET_ID", "GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE",
		"GOOGLE_APPLICATION_CREDENTIALS", "LEDGER_TABLE", "HOLDS_TABLE", "LEDGER_TYPES",
		"CACHE_TTL", "CACHE_SIZE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sheet1.csv"), []byte(ledgerCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sheet2.csv"), []byte(holdsCSV), 0o644))
	t.Setenv("DATA_DIR", dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReport(t *testing.T) {
	setupDataDir(t)

	out, err := run(t, "report", "--holds")
	require.NoError(t, err)
	assert.Contains(t, out, "01/01/2024 - 03/01/2024 (3 days)")
	assert.Contains(t, out, "Rp 100")
	assert.Contains(t, out, "Rp 70")
	assert.Contains(t, out, "Konsumsi")
	assert.Contains(t, out, "02/01/2024")
	assert.Contains(t, out, "Funds on hold")
	assert.Contains(t, out, "Hibah")
}

func TestReportWindow(t *testing.T) {
	setupDataDir(t)

	out, err := run(t, "report", "--start", "2024-01-02", "--end", "03/01/2024", "--daily=false")
	require.NoError(t, err)
	assert.Contains(t, out, "02/01/2024 - 03/01/2024 (2 days)")
	assert.NotContains(t, out, "Date")

	_, err = run(t, "report", "--start", "2024-02-10", "--end", "2024-02-01")
	assert.ErrorIs(t, err, core.ErrInvalidRange)

	_, err = run(t, "report", "--start", "yesterday")
	assert.ErrorContains(t, err, "--start")
}

func TestReportUsesConfigFile(t *testing.T) {
	dir := setupDataDir(t)
	require.NoError(t, os.Rename(filepath.Join(dir, "Sheet1.csv"), filepath.Join(dir, "Kas.csv")))

	path := filepath.Join(t.TempDir(), "keuangan.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ledger]
table = "Kas"

[cache]
ttl = "0s"
`), 0o644))

	out, err := run(t, "--config", path, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Rp 70")
}

func TestAdd(t *testing.T) {
	setupDataDir(t)

	out, err := run(t, "add",
		"--date", "2024-01-04",
		"--description", "Honor narasumber",
		"--category", "pengeluaran",
		"--type", "Honor",
		"--amount", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "04/01/2024")
	assert.Contains(t, out, "Pengeluaran")
	assert.Contains(t, out, "Rp 20")
}

func TestAddRejectsInvalidEntry(t *testing.T) {
	setupDataDir(t)

	_, err := run(t, "add", "--category", "Pemasukan", "--type", "Travel", "--amount", "10")
	assert.ErrorIs(t, err, core.ErrInvalidType)

	_, err = run(t, "add", "--category", "Hadiah", "--type", "Honor", "--amount", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidCategory)
	assert.ErrorIs(t, err, core.ErrMalformedNumber)

	_, err = run(t, "add", "--type", "Honor", "--amount", "10")
	assert.ErrorContains(t, err, "category")
}

func TestAddFlagsDefaultDate(t *testing.T) {
	today := time.Date(2024, 6, 1, 15, 0, 0, 0, time.Local)
	e, err := addFlags{category: "Pemasukan", kind: "Internal", amount: "Rp 1,500"}.entry(today)
	require.NoError(t, err)
	assert.Equal(t, "01/06/2024", e.Date.String())
	assert.Equal(t, "1500", e.Amount.String())
}

func TestHolds(t *testing.T) {
	setupDataDir(t)

	out, err := run(t, "holds")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"Jumlah", "Nama"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"5,000", "Hibah"}, strings.Fields(lines[1]))
}

func TestPullNeedsSpreadsheet(t *testing.T) {
	setupDataDir(t)

	_, err := run(t, "pull")
	assert.ErrorContains(t, err, "GOOGLE_SPREADSHEET_ID")
}
