package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"keuangan/internal/core"
	"keuangan/internal/log"
)

type windowJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

type recordJSON struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

type pointJSON struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type typeTotalJSON struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
}

type reportJSON struct {
	Window        windowJSON        `json:"window"`
	TotalIncome   decimal.Decimal   `json:"total_income"`
	TotalExpense  decimal.Decimal   `json:"total_expense"`
	LatestBalance decimal.Decimal   `json:"latest_balance"`
	Formatted     map[string]string `json:"formatted"`
	DailyIncome   []pointJSON       `json:"daily_income"`
	DailyExpense  []pointJSON       `json:"daily_expense"`
	ExpenseByType []typeTotalJSON   `json:"expense_by_type"`
	Records       []recordJSON      `json:"records"`
}

func toWindowJSON(w core.DateWindow) windowJSON {
	return windowJSON{Start: w.Start.String(), End: w.End.String(), Days: w.Days()}
}

func toRecordJSON(r core.Record) recordJSON {
	return recordJSON{
		Date:        r.Date.String(),
		Description: r.Description,
		Category:    r.Category.String(),
		Type:        r.Type,
		Amount:      r.Amount,
		Balance:     r.Balance,
	}
}

func toRecordsJSON(records []core.Record) []recordJSON {
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordJSON(r))
	}
	return out
}

func toSeriesJSON(s core.DailySeries) []pointJSON {
	out := make([]pointJSON, 0, len(s))
	for _, p := range s {
		out = append(out, pointJSON{Date: p.Date.String(), Value: p.Value})
	}
	return out
}

func toReportJSON(r core.Report) reportJSON {
	byType := make([]typeTotalJSON, 0, len(r.ExpenseByType))
	for _, t := range r.ExpenseByType.Sorted() {
		byType = append(byType, typeTotalJSON{Type: t.Type, Total: t.Total})
	}
	return reportJSON{
		Window:        toWindowJSON(r.Window),
		TotalIncome:   r.TotalIncome,
		TotalExpense:  r.TotalExpense,
		LatestBalance: r.LatestBalance,
		Formatted: map[string]string{
			"total_income":   core.FormatRupiah(r.TotalIncome),
			"total_expense":  core.FormatRupiah(r.TotalExpense),
			"latest_balance": core.FormatRupiah(r.LatestBalance),
		},
		DailyIncome:   toSeriesJSON(r.DailyIncome),
		DailyExpense:  toSeriesJSON(r.DailyExpense),
		ExpenseByType: byType,
		Records:       toRecordsJSON(r.Records),
	}
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks the backing store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, httpStatus := "ready", http.StatusOK
	checks := map[string]any{
		"rate_limiter": map[string]any{
			"active_clients": s.limiter.activeClients(),
			"hits":           s.limiter.totalHits(),
		},
		"records_appended":    atomic.LoadInt64(&s.appended),
		"suspicious_requests": atomic.LoadInt64(&s.suspicious),
	}
	switch {
	case s.ready == nil:
		checks["store"] = "ok"
	default:
		if err := s.ready(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := ParseWindowParams(r.URL.Query())
	if err != nil {
		errorFromErr(err).Write(w)
		return
	}
	report, err := s.ledger.Report(ctx, params.Start, params.End)
	if err != nil {
		s.logFailure(ctx, "Report failed", log.OpReport, err)
		errorFromErr(err).Write(w)
		return
	}
	NewResponse().JSON(toReportJSON(report)).Write(w)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := ParseWindowParams(r.URL.Query())
	if err != nil {
		errorFromErr(err).Write(w)
		return
	}
	records, window, err := s.ledger.Records(ctx, params.Start, params.End)
	if err != nil {
		s.logFailure(ctx, "Listing records failed", log.OpRead, err)
		errorFromErr(err).Write(w)
		return
	}
	NewResponse().JSON(map[string]any{
		"window":  toWindowJSON(window),
		"records": toRecordsJSON(records),
	}).Write(w)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, err := ParseEntry(NewRequestBodyParser(r))
	if err != nil {
		errorFromErr(err).Write(w)
		return
	}

	rec, err := s.ledger.Add(ctx, entry)
	if err != nil {
		s.logFailure(ctx, "Record append failed", log.OpAppend, err)
		errorFromErr(err).Write(w)
		return
	}
	atomic.AddInt64(&s.appended, 1)

	NewResponse().
		Status(http.StatusCreated).
		JSON(toRecordJSON(rec)).
		Write(w)
}

func (s *Server) handleHolds(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ledger.Holds(r.Context())
	if err != nil {
		s.logFailure(r.Context(), "Reading holds failed", log.OpRead, err)
		errorFromErr(err).Write(w)
		return
	}
	if rows == nil {
		rows = []core.RawRow{}
	}
	NewResponse().JSON(map[string]any{"rows": rows}).Write(w)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"categories": []string{core.Income.String(), core.Expense.String()},
		"types":      s.ledger.Types(),
	}).Write(w)
}

func (s *Server) logFailure(ctx context.Context, msg, op string, err error) {
	status, _ := errorStatus(err)
	fields := log.NewFields().WithOperation(op).WithError(err)
	level := slogLevelFor(status)
	log.FromContext(ctx).Fields(ctx, level, msg, fields)
}
