// Copyright 2025 Alan Matykiewicz
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package bing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alan-mat/bingasync/internal/http"
	"github.com/alan-mat/bingasync/internal/metrics"
)

// Upstream error kinds. Errors returned by Client searches wrap exactly one
// of these and can be matched with errors.Is.
var (
	ErrInvalidCredentials   = errors.New("invalid api key")
	ErrQuotaExceeded        = errors.New("api key quota or rate limit exceeded")
	ErrMalformedQuery       = errors.New("malformed query")
	ErrTransport            = errors.New("transport failure")
	ErrUnrecognizedUpstream = errors.New("unrecognized upstream error")
)

// Request validation errors.
var (
	ErrMissingApiKey     = errors.New("api key must not be empty")
	ErrEmptyQuery        = errors.New("query terms must not be empty")
	ErrUnknownSearchType = errors.New("unknown search type")
	ErrUnknownFormat     = errors.New("unknown format")
	ErrUnknownAdult      = errors.New("unknown adult setting")
	ErrUnknownParam      = errors.New("unknown parameter")
	ErrReservedParam     = errors.New("parameter is set by the client")
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrProxyUnsupportedTransport is returned by New when WithProxies is
	// combined with a WithTransport round tripper that is not an
	// *http.Transport.
	ErrProxyUnsupportedTransport = http.ErrProxyUnsupportedTransport
)

// UpstreamError is returned when the API answers with an error status.
type UpstreamError struct {
	StatusCode int
	Body       string
	URL        string
	Kind       error
}

func (e *UpstreamError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512]
	}
	return fmt.Sprintf("%v (HTTP Error %d) %s", e.Kind, e.StatusCode, body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Kind
}

// body fragments the API uses when rejecting an account key
var invalidKeyMessages = []string{
	"invalid account key",
	"not authorized",
	"authorization type you provided is not supported",
}

// classifyStatus maps an upstream error status and body to an error kind.
// Unmapped statuses are reported as ErrUnrecognizedUpstream.
func classifyStatus(status int, body string) error {
	switch status {
	case 400:
		if containsAny(body, invalidKeyMessages) {
			return ErrInvalidCredentials
		}
		return ErrMalformedQuery
	case 401:
		return ErrInvalidCredentials
	case 403:
		if containsAny(body, invalidKeyMessages) {
			return ErrInvalidCredentials
		}
		return ErrQuotaExceeded
	case 429, 503:
		return ErrQuotaExceeded
	default:
		return ErrUnrecognizedUpstream
	}
}

func containsAny(body string, fragments []string) bool {
	lower := strings.ToLower(body)
	for _, f := range fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// wrapError converts errors from the http client into the error kinds
// above.
func wrapError(err error) error {
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		body := string(statusErr.Body)
		return &UpstreamError{
			StatusCode: statusErr.StatusCode,
			Body:       body,
			URL:        statusErr.URL,
			Kind:       classifyStatus(statusErr.StatusCode, body),
		}
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidCredentials):
		return metrics.OutcomeInvalidKey
	case errors.Is(err, ErrQuotaExceeded):
		return metrics.OutcomeQuotaExceeded
	case errors.Is(err, ErrMalformedQuery):
		return metrics.OutcomeMalformedQuery
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled
	case errors.Is(err, ErrTransport):
		return metrics.OutcomeTransportError
	default:
		return metrics.OutcomeUpstreamError
	}
}
