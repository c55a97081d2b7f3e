// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package companydns

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/company-dns/pkg/types"
)

var (
	// ErrEmptyQuery is types.ErrEmptyQuery.
	ErrEmptyQuery = types.ErrEmptyQuery

	// ErrTimeout matches any *APIError raised because a request exceeded
	// its deadline (status 408).
	ErrTimeout = errors.New("request timeout")

	// ErrCIKNotFound is returned when a CIK lookup yields no company name.
	ErrCIKNotFound = errors.New("no filings found for provided CIK")
)

// APIError is a failed API call. StatusCode is the HTTP status, 408 for a
// client-side timeout, or 0 when no response was received or the response
// could not be decoded.
type APIError struct {
	Path       string
	StatusCode int
	Message    string

	// Body is the raw response body of a non-2xx response.
	Body []byte

	// RetryAfter is the response's Retry-After delay, if any.
	RetryAfter time.Duration

	Err error
}

func (e *APIError) Error() string {
	if e == nil {
		return "company_dns error"
	}
	var b strings.Builder
	b.WriteString("company_dns")
	if e.Path != "" {
		fmt.Fprintf(&b, " GET %s", e.Path)
	}
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.RetryAfter > 0 {
		fmt.Fprintf(&b, " (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil && e.StatusCode == 0 && e.Message != e.Err.Error() {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Is reports a timeout APIError as ErrTimeout.
func (e *APIError) Is(target error) bool {
	return target == ErrTimeout && e.StatusCode == http.StatusRequestTimeout
}

// IsNotFound reports whether err is an HTTP 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// newStatusError builds an APIError from a non-2xx response. The message
// comes from the body's "detail" field, then its "message" field, then
// the status text.
func newStatusError(path string, status int, body []byte) *APIError {
	e := &APIError{Path: path, StatusCode: status, Body: body}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err == nil {
		if d := types.ScalarString(payload.Detail); d != "" {
			e.Message = d
		} else if payload.Message != "" {
			e.Message = payload.Message
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = "API error"
	}
	return e
}
