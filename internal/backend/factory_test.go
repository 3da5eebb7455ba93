package backend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keuangan/internal/cache"
	"keuangan/internal/config"
	"keuangan/internal/core"
	"keuangan/internal/log"
)

func testFactory() Factory {
	var buf bytes.Buffer
	return NewFactory(log.New(log.Config{Output: &buf}))
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	app := &config.Config{
		DataBackend: "sqlite",
		DataDir:     "seed",
		LedgerTable: "Sheet1",
		HoldsTable:  "Sheet2",
		CacheTTL:    time.Minute,
		CacheSize:   4,
	}
	cfg, err := FromAppConfig(app)
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, []string{"Sheet1", "Sheet2"}, cfg.Tables)
	assert.Equal(t, "seed", cfg.DataDirectory)
	assert.Equal(t, time.Minute, cfg.CacheTTL)

	app.DataBackend = "postgres"
	_, err = FromAppConfig(app)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Type: "nope"}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: SheetsBackend, GoogleSpreadsheetID: "x"}.Validate())
	assert.Error(t, Config{Type: MemoryBackend, CacheTTL: -time.Second}.Validate())
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
}

func TestMemoryBackendFromCSV(t *testing.T) {
	dir := t.TempDir()
	csv := "Tanggal,Deskripsi,Kategori,Tipe,Jumlah,Saldo\n01/01/2024,Dana awal,Pemasukan,Internal,100,100\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sheet1.csv"), []byte(csv), 0644))

	ctx := context.Background()
	res, err := testFactory().CreateBackend(ctx, Config{
		Type:          MemoryBackend,
		DataDirectory: dir,
		Tables:        []string{"Sheet1", "Sheet2"},
	})
	require.NoError(t, err)
	defer res.Close()

	rows, err := res.Source.FetchAll(ctx, "Sheet1")
	require.NoError(t, err)
	l, err := core.Normalize(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
	assert.Nil(t, res.Ready)

	holds, err := res.Source.FetchAll(ctx, "Sheet2")
	require.NoError(t, err)
	assert.Empty(t, holds)
}

func TestCacheWrapsBackend(t *testing.T) {
	ctx := context.Background()
	res, err := testFactory().CreateBackend(ctx, Config{
		Type:          MemoryBackend,
		DataDirectory: t.TempDir(),
		CacheTTL:      time.Hour,
	})
	require.NoError(t, err)
	defer res.Close()

	_, ok := res.Source.(*cache.Store)
	require.True(t, ok, "source should be the cache store")

	rows, err := res.Source.FetchAll(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rec := core.Record{Date: core.NewDate(2024, 1, 1), Category: core.Income, Type: "Internal"}
	require.NoError(t, res.Sink.AppendRow(ctx, "Sheet1", rec.Values()))

	rows, err = res.Source.FetchAll(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "append must invalidate the snapshot")
}

func TestSQLiteBackendWithoutAMQP(t *testing.T) {
	ctx := context.Background()
	res, err := testFactory().CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "keuangan.db"),
	})
	require.NoError(t, err)
	defer res.Close()

	require.NotNil(t, res.Ready)
	assert.NoError(t, res.Ready(ctx))

	rec := core.Record{Date: core.NewDate(2024, 1, 1), Category: core.Income, Type: "Internal"}
	require.NoError(t, res.Sink.AppendRow(ctx, "Sheet1", rec.Values()))

	rows, err := res.Source.FetchAll(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSheetsBackendRequiresCredentials(t *testing.T) {
	_, err := testFactory().CreateBackend(context.Background(), Config{
		Type:                SheetsBackend,
		GoogleSpreadsheetID: "abc",
	})
	assert.Error(t, err)
}
