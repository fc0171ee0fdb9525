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

package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alan-mat/bingasync/bing"
	"github.com/alan-mat/bingasync/internal/config"
)

const testConfig = `
api_key: file-key
endpoint: https://bing.example.com/v1/
timeout: 15s
concurrency: 4
log_level: debug
proxies:
  https: https://proxy.example.com
defaults:
  format: atom
  adult: moderate
  pages: 2
  quoting: true
  markets: [en-US, en-GB]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(config.EnvApiKey, "")
	path := writeFile(t, "config.yaml", testConfig)

	conf, err := config.Load(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if conf.ApiKey != "file-key" {
		t.Errorf("expected api key 'file-key', got '%s'", conf.ApiKey)
	}
	if conf.Proxies["https"] != "https://proxy.example.com" {
		t.Errorf("unexpected proxies %v", conf.Proxies)
	}
	if d, _ := conf.TimeoutDuration(); d != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", d)
	}
	if l, _ := conf.Level(); l != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", l)
	}
	if len(conf.Defaults.Markets) != 2 || conf.Defaults.Markets[1] != "en-GB" {
		t.Errorf("unexpected default markets %v", conf.Defaults.Markets)
	}

	searchOpts, err := conf.SearchOptions()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	var req bing.Request
	for _, opt := range searchOpts {
		opt(&req)
	}
	if req.Format != bing.FormatAtom || req.Adult != bing.AdultModerate || req.Pages != 2 || !req.Quoting {
		t.Errorf("unexpected request defaults %+v", req)
	}

	clientOpts, err := conf.ClientOptions(slog.Default())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := bing.New(conf.ApiKey, clientOpts...); err != nil {
		t.Errorf("expected client from config, got %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", testConfig)
	t.Setenv(config.EnvApiKey, "env-key")
	t.Setenv(config.EnvHTTPProxy, "http://env-proxy.example.com")

	conf, err := config.Load(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if conf.ApiKey != "env-key" {
		t.Errorf("expected env api key to win, got '%s'", conf.ApiKey)
	}
	if conf.Proxies["http"] != "http://env-proxy.example.com" {
		t.Errorf("expected http proxy from env, got %v", conf.Proxies)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv(config.EnvApiKey, "")
	os.Unsetenv(config.EnvApiKey)
	env := writeFile(t, ".env", config.EnvApiKey+"=dotenv-key\n")

	conf, err := config.Load("", env, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if conf.ApiKey != "dotenv-key" {
		t.Errorf("expected api key from env file, got '%s'", conf.ApiKey)
	}
	if conf.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got '%s'", conf.LogLevel)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv(config.EnvApiKey, "")

	cases := []struct {
		name    string
		content string
	}{
		{"missing key", "timeout: 1s\n"},
		{"timeout", "api_key: k\ntimeout: soon\n"},
		{"log level", "api_key: k\nlog_level: loud\n"},
		{"format", "api_key: k\ndefaults:\n  format: csv\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "config.yaml", tc.content))
			if err == nil {
				t.Errorf("expected error")
			}
		})
	}

	_, err := config.Load(writeFile(t, "config.yaml", "timeout: 1s\n"))
	if !errors.Is(err, config.ErrMissingApiKey) {
		t.Errorf("expected '%v', got '%v'", config.ErrMissingApiKey, err)
	}
}
