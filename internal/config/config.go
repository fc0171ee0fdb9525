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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alan-mat/bingasync/bing"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	EnvApiKey     = "BING_API_KEY"
	EnvEndpoint   = "BING_ENDPOINT"
	EnvHTTPProxy  = "BING_HTTP_PROXY"
	EnvHTTPSProxy = "BING_HTTPS_PROXY"
	EnvLogLevel   = "BING_LOG_LEVEL"
)

var ErrMissingApiKey = errors.New("no api key configured, set 'api_key' or " + EnvApiKey)

type DefaultsConfig struct {
	Format         string   `yaml:"format"`
	Adult          string   `yaml:"adult"`
	Pages          int      `yaml:"pages"`
	ResultsPerPage int      `yaml:"results_per_page"`
	Quoting        bool     `yaml:"quoting"`
	Markets        []string `yaml:"markets"`
}

type Config struct {
	ApiKey      string            `yaml:"api_key"`
	Endpoint    string            `yaml:"endpoint"`
	Proxies     map[string]string `yaml:"proxies"`
	Timeout     string            `yaml:"timeout"`
	Concurrency int               `yaml:"concurrency"`
	LogLevel    string            `yaml:"log_level"`

	Defaults DefaultsConfig `yaml:"defaults"`
}

func ReadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var conf Config
	if err := yaml.Unmarshal(file, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}

	return &conf, nil
}

// Load reads the optional env files and the optional config file at path,
// then applies environment overrides. Missing files are skipped.
func Load(path string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file '%s': %w", f, err)
		}
	}

	conf := &Config{}
	if path != "" {
		c, err := ReadConfig(path)
		if err != nil {
			return nil, err
		}
		conf = c
	}

	conf.applyEnv()
	if conf.LogLevel == "" {
		conf.LogLevel = "info"
	}

	return conf, conf.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvApiKey); v != "" {
		c.ApiKey = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	for scheme, env := range map[string]string{"http": EnvHTTPProxy, "https": EnvHTTPSProxy} {
		if v := os.Getenv(env); v != "" {
			if c.Proxies == nil {
				c.Proxies = make(map[string]string)
			}
			c.Proxies[scheme] = v
		}
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ApiKey) == "" {
		return ErrMissingApiKey
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	_, err := c.SearchOptions()
	return err
}

func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout '%s': %w", c.Timeout, err)
	}
	return d, nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level '%s': %w", c.LogLevel, err)
	}
	return level, nil
}

// ClientOptions translates the config into options for bing.New.
func (c *Config) ClientOptions(logger *slog.Logger) ([]bing.ClientOption, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []bing.ClientOption{
		bing.WithLogger(logger),
		bing.WithConcurrency(c.Concurrency),
	}
	if c.Endpoint != "" {
		opts = append(opts, bing.WithEndpoint(c.Endpoint))
	}
	if timeout > 0 {
		opts = append(opts, bing.WithTimeout(timeout))
	}
	if len(c.Proxies) > 0 {
		opts = append(opts, bing.WithProxies(c.Proxies))
	}
	return opts, nil
}

// SearchOptions returns the configured request defaults.
func (c *Config) SearchOptions() ([]bing.SearchOption, error) {
	var opts []bing.SearchOption
	d := c.Defaults

	if d.Format != "" {
		f, err := bing.ParseFormat(d.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bing.WithFormat(f))
	}
	if d.Adult != "" {
		a, err := bing.ParseAdult(d.Adult)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bing.WithAdult(a))
	}
	if d.Pages > 0 {
		opts = append(opts, bing.WithPages(d.Pages))
	}
	if d.ResultsPerPage > 0 {
		opts = append(opts, bing.WithResultsPerPage(d.ResultsPerPage))
	}
	if d.Quoting {
		opts = append(opts, bing.WithQuoting(true))
	}
	return opts, nil
}
