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

package main

import (
	"context"
	"fmt"
	gohttp "net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/alan-mat/bingasync/bing"
	"github.com/alan-mat/bingasync/internal/config"
)

func TestSearchOptions(t *testing.T) {
	conf := &config.Config{
		Defaults: config.DefaultsConfig{Format: "json", Pages: 3},
	}
	opts, err := searchOptions(conf, searchFlags{Format: "atom", Quote: true, Adult: "strict"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	var req bing.Request
	for _, opt := range opts {
		opt(&req)
	}
	if req.Format != bing.FormatAtom {
		t.Errorf("expected flag format to override config, got '%s'", req.Format)
	}
	if req.Pages != 3 || !req.Quoting || req.Adult != bing.AdultStrict {
		t.Errorf("unexpected request %+v", req)
	}

	if _, err := searchOptions(conf, searchFlags{Format: "yaml"}); err == nil {
		t.Errorf("expected error for unknown format")
	}
}

func TestSearchCommands(t *testing.T) {
	var mu sync.Mutex
	var queries []url.Values
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		q, _ := url.ParseQuery(r.URL.RawQuery)
		mu.Lock()
		queries = append(queries, q)
		mu.Unlock()
		fmt.Fprint(w, `{"d":{"results":[]}}`)
	}))
	defer srv.Close()

	conf := &config.Config{
		ApiKey:   "key",
		Endpoint: srv.URL,
		Defaults: config.DefaultsConfig{Markets: []string{"de-DE"}},
	}
	opts, err := conf.ClientOptions(nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	client, err := bing.New(conf.ApiKey, opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	cases := []struct {
		name     string
		cmd      any
		requests int
		market   string
	}{
		{"web", &webCmd{searchFlags: searchFlags{Terms: []string{"a"}}}, 1, "'de-DE'"},
		{"web market flag", &webCmd{searchFlags: searchFlags{Terms: []string{"a"}}, Markets: []string{"fr-FR"}}, 1, "'fr-FR'"},
		{"english", &englishCmd{searchFlags: searchFlags{Terms: []string{"a"}}}, 13, ""},
		{"news", &newsCmd{searchFlags: searchFlags{Terms: []string{"a"}}, Categories: []string{"World"}}, 1, "'de-DE'"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mu.Lock()
			queries = nil
			mu.Unlock()

			resp, err := search(context.Background(), client, conf, tc.cmd)
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if len(resp.Pages) != tc.requests {
				t.Errorf("expected %d pages, got %d", tc.requests, len(resp.Pages))
			}
			if tc.market != "" && queries[0].Get("Market") != tc.market {
				t.Errorf("expected market %s, got %s", tc.market, queries[0].Get("Market"))
			}
		})
	}

	if _, err := search(context.Background(), client, conf, struct{}{}); err == nil {
		t.Errorf("expected error for unknown command")
	}
}
