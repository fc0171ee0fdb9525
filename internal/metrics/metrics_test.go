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

package metrics_test

import (
	"testing"
	"time"

	"github.com/alan-mat/bingasync/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	r.Observe("News", metrics.OutcomeOK, 20*time.Millisecond)
	r.Observe("News", metrics.OutcomeOK, 30*time.Millisecond)
	r.Observe("Web", metrics.OutcomeQuotaExceeded, time.Second)

	if n := testutil.ToFloat64(r.Requests().WithLabelValues("News", metrics.OutcomeOK)); n != 2 {
		t.Errorf("expected 2 news requests, got %v", n)
	}
	got, err := testutil.GatherAndCount(reg, "bing_request_duration_seconds")
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if got != 2 {
		t.Errorf("expected 2 duration series, got %d", got)
	}

	if _, err := metrics.New(reg); err == nil {
		t.Errorf("expected duplicate registration to fail")
	}
}

func TestNilRecorder(t *testing.T) {
	var r *metrics.Recorder
	r.Observe("Web", metrics.OutcomeOK, time.Second)
}
