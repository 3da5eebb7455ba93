package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keuangan/internal/core"
	"keuangan/internal/log"
	"keuangan/internal/services"
	"keuangan/internal/sheets/memory"
)

var _ LedgerService = (*services.LedgerService)(nil)

func newTestServer(t *testing.T, opts Options) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.Seed("Sheet1", core.LedgerColumns, [][]any{
		{"01/01/2024", "Dana awal", "Pemasukan", "Internal", 100.0, 100.0},
		{"03/01/2024", "Snack", "Pengeluaran", "Konsumsi", 30.0, 70.0},
	})
	store.Seed("Sheet2", []string{"Nama", "Jumlah"}, [][]any{{"Hibah", 5000.0}})

	svc := services.NewLedgerService(store, services.NewLedgerWriter(store, "Sheet1", nil), "Sheet1", "Sheet2")
	var buf bytes.Buffer
	opts.Logger = log.New(log.Config{Level: slog.LevelDebug, Output: &buf})
	return NewServer(":0", svc, opts), store
}

func do(t *testing.T, srv *Server, method, path, body, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"), "request id propagated")
	}
}

func TestReadyReportsStoreFailure(t *testing.T) {
	srv, _ := newTestServer(t, Options{Ready: func(context.Context) error { return errors.New("db locked") }})
	rr := do(t, srv, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "db locked")
}

func TestReportDefaultsToLedgerSpan(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rr := do(t, srv, http.MethodGet, "/api/report", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decode(t, rr)
	assert.Equal(t, "100", body["total_income"])
	assert.Equal(t, "30", body["total_expense"])
	assert.Equal(t, "70", body["latest_balance"])

	window := body["window"].(map[string]any)
	assert.Equal(t, "01/01/2024", window["start"])
	assert.Equal(t, "03/01/2024", window["end"])
	assert.EqualValues(t, 3, window["days"])

	assert.Len(t, body["daily_expense"], 3)
	assert.Len(t, body["records"], 2)
	formatted := body["formatted"].(map[string]any)
	assert.Equal(t, "Rp 70", formatted["latest_balance"])

	byType := body["expense_by_type"].([]any)
	require.Len(t, byType, 1)
	assert.Equal(t, "Konsumsi", byType[0].(map[string]any)["type"])
}

func TestReportRejectsBadWindow(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodGet, "/api/report?start=2024-02-10&end=2024-02-01", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_range", decode(t, rr)["code"])

	rr = do(t, srv, http.MethodGet, "/api/report?start=tomorrow", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReportMalformedLedger(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	require.NoError(t, store.AppendRow(context.Background(), "Sheet1",
		[]any{"31/02/2024", "x", "Pemasukan", "Internal", 1.0, 1.0}))

	rr := do(t, srv, http.MethodGet, "/api/report", "", "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "malformed_date", decode(t, rr)["code"])
}

func TestListRecordsFiltered(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rr := do(t, srv, http.MethodGet, "/api/records?start=2024-01-02", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	records := decode(t, rr)["records"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "Snack", records[0].(map[string]any)["description"])
}

func TestCreateRecord(t *testing.T) {
	srv, store := newTestServer(t, Options{})

	// Wrong method
	rr := do(t, srv, http.MethodPut, "/api/records", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// Missing fields
	rr = do(t, srv, http.MethodPost, "/api/records", "amount=abc", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Domain rejection
	rr = do(t, srv, http.MethodPost, "/api/records",
		`{"date":"2024-01-04","category":"Pemasukan","type":"Travel","amount":"10"}`, "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_type", decode(t, rr)["code"])
	assert.Equal(t, 2, store.Len("Sheet1"))

	// Success
	rr = do(t, srv, http.MethodPost, "/api/records",
		"date=2024-01-04&description=Honor+narasumber&category=Pengeluaran&type=Honor&amount=50", "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	body := decode(t, rr)
	assert.Equal(t, "04/01/2024", body["date"])
	assert.Equal(t, "20", body["balance"])
	assert.Equal(t, 3, store.Len("Sheet1"))
}

func TestCreateRecordRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, Options{WritesPerMinute: 1})

	var last int
	for i := 0; i < 10; i++ {
		rr := do(t, srv, http.MethodPost, "/api/records", "amount=x", "application/x-www-form-urlencoded")
		last = rr.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// reads are not limited
	rr := do(t, srv, http.MethodGet, "/api/options", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHoldsAndOptions(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodGet, "/api/holds", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rows := decode(t, rr)["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hibah", rows[0].(map[string]any)["Nama"])

	rr = do(t, srv, http.MethodGet, "/api/options", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, []any{"Pemasukan", "Pengeluaran"}, body["categories"])
	assert.Len(t, body["types"], len(core.DefaultTypes))
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rr := do(t, srv, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct", "203.0.113.5:1234", "", "203.0.113.5"},
		{"untrusted proxy ignored", "203.0.113.5:1234", "198.51.100.1", "203.0.113.5"},
		{"trusted proxy", "10.0.0.2:1234", "198.51.100.1, 10.0.0.2", "198.51.100.1"},
		{"trusted proxy bad header", "10.0.0.2:1234", "garbage", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, extractClientIP(req))
		})
	}
}
