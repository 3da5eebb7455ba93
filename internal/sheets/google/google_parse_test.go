package google

import (
	"testing"

	"keuangan/internal/core"
)

func TestParseTable_LedgerSheet(t *testing.T) {
	values := [][]interface{}{
		{"Tanggal", "Deskripsi", "Kategori", "Tipe", "Jumlah", "Saldo"},
		{"01/01/2024", "Dana awal", "Pemasukan", "Internal", 100.0, 100.0},
		{"", "", "", "", "", ""},
		{"03/01/2024", "Snack", "Pengeluaran", "Konsumsi", 30.0},
	}
	rows := parseTable(values)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][core.ColumnDescription] != "Dana awal" {
		t.Fatalf("unexpected description: %v", rows[0][core.ColumnDescription])
	}
	if rows[0][core.ColumnAmount] != 100.0 {
		t.Fatalf("amount should stay numeric, got %#v", rows[0][core.ColumnAmount])
	}
	if rows[1][core.ColumnBalance] != "" {
		t.Fatalf("short row should be padded, got %#v", rows[1][core.ColumnBalance])
	}

	l, err := core.Normalize(rows)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected ledger of 2, got %d", l.Len())
	}
}

func TestParseTable_HeaderOnlyAndEmpty(t *testing.T) {
	if rows := parseTable(nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	rows := parseTable([][]interface{}{{"Nama", "Jumlah", "Keterangan"}})
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestParseTable_ArbitraryHeaders(t *testing.T) {
	values := [][]interface{}{
		{" Nama ", "Jumlah", "", "Keterangan"},
		{"Hibah riset", 5000000.0, "ignored", "ditahan sampai Juni"},
	}
	rows := parseTable(values)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r["Nama"] != "Hibah riset" || r["Keterangan"] != "ditahan sampai Juni" {
		t.Fatalf("unexpected row: %#v", r)
	}
	if _, ok := r[""]; ok {
		t.Fatalf("blank header must not become a key: %#v", r)
	}
}

func TestToStrings(t *testing.T) {
	got := toStrings([]interface{}{" a ", 1.5, nil})
	want := []string{"a", "1.5", "<nil>"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %q want %q", i, got[i], want[i])
		}
	}
}
