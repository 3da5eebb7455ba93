// Package http serves the ledger report and the record entry API.
//
// This file implements utilities for parsing and validating request data.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"keuangan/internal/core"
)

const maxBodyBytes = 64 << 10

var errBadRequest = errors.New("bad request")

// WindowParams holds the optional report bounds of a query string. Zero
// dates mean "not given".
type WindowParams struct {
	Start core.Date
	End   core.Date
}

// ParseWindowParams reads start and end from query. Malformed values are an
// error rather than a silent default.
func ParseWindowParams(query url.Values) (WindowParams, error) {
	var p WindowParams
	for _, f := range []struct {
		key string
		dst *core.Date
	}{{"start", &p.Start}, {"end", &p.End}} {
		v := strings.TrimSpace(query.Get(f.key))
		if v == "" {
			continue
		}
		d, err := parseDate(v)
		if err != nil {
			return WindowParams{}, fmt.Errorf("%w: %s %q is not a date", errBadRequest, f.key, v)
		}
		*f.dst = d
	}
	return p, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the request body once, up to maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseEntry builds a ledger entry from a parsed body. Fields are checked for
// shape only; LedgerWriter owns the domain rules.
func ParseEntry(p *RequestBodyParser) (core.Entry, error) {
	if err := p.Parse(); err != nil {
		return core.Entry{}, fmt.Errorf("%w: malformed body", errBadRequest)
	}

	var e core.Entry
	var problems []string

	if v := p.Get("date"); v == "" {
		problems = append(problems, "date is required")
	} else if d, err := parseDate(v); err != nil {
		problems = append(problems, fmt.Sprintf("date %q is not a date", v))
	} else {
		e.Date = d
	}

	if v := p.Get("category"); v == "" {
		problems = append(problems, "category is required")
	} else if c, err := core.ParseCategory(v); err != nil {
		// Unknown names still reach the writer, which rejects them.
		e.Category = core.Category(v)
	} else {
		e.Category = c
	}

	e.Type = p.Get("type")
	if e.Type == "" {
		problems = append(problems, "type is required")
	}

	if v := p.Get("amount"); v == "" {
		problems = append(problems, "amount is required")
	} else if a, err := core.ParseAmount(v); err != nil {
		problems = append(problems, fmt.Sprintf("amount %q is not a number", v))
	} else {
		e.Amount = a
	}

	e.Description = p.Get("description")

	if len(problems) > 0 {
		return core.Entry{}, fmt.Errorf("%w: %s", errBadRequest, strings.Join(problems, "; "))
	}
	return e, nil
}
