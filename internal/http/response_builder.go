// This file implements a small builder for JSON responses and the mapping
// from ledger errors to HTTP status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"keuangan/internal/core"
)

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	payload    any
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(b.statusCode)
	if b.payload != nil {
		_ = json.NewEncoder(w).Encode(b.payload)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorResponse creates a JSON error response.
func ErrorResponse(statusCode int, code, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(errorBody{Error: message, Code: code})
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *ResponseBuilder {
	b := ErrorResponse(http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	if allowedMethods != "" {
		b.Header("Allow", allowedMethods)
	}
	return b
}

// errorStatus maps an error from the ledger layers to a status and a short
// machine-readable code.
//
//	request or entry problems    -> 400 / 422
//	malformed stored data        -> 502
//	write failure                -> 502
//	anything else                -> 500
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, core.ErrInvalidRange):
		return http.StatusUnprocessableEntity, "invalid_range"
	case errors.Is(err, core.ErrInvalidDate):
		return http.StatusUnprocessableEntity, "invalid_date"
	case errors.Is(err, core.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "invalid_amount"
	case errors.Is(err, core.ErrInvalidCategory):
		return http.StatusUnprocessableEntity, "invalid_category"
	case errors.Is(err, core.ErrInvalidType):
		return http.StatusUnprocessableEntity, "invalid_type"
	case errors.Is(err, core.ErrMalformedDate):
		return http.StatusBadGateway, "malformed_date"
	case errors.Is(err, core.ErrMalformedNumber):
		return http.StatusBadGateway, "malformed_number"
	case errors.Is(err, core.ErrWriteFailed):
		return http.StatusBadGateway, "write_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// errorFromErr renders err. Internal errors are not echoed to the client.
func errorFromErr(err error) *ResponseBuilder {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	return ErrorResponse(status, code, msg)
}
