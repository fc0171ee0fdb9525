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

// Package bing is a client for the Bing Search API. It builds the upstream
// queries, runs them concurrently and returns the raw response bodies.
package bing

import (
	"context"
	"fmt"
	"log/slog"
	gohttp "net/http"
	"net/url"
	"time"

	"github.com/alan-mat/bingasync/internal/http"
	"github.com/alan-mat/bingasync/internal/metrics"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const Endpoint = "https://api.datamarket.azure.com/Bing/Search/v1/"

// Client is safe for concurrent use. Its configuration is fixed by New.
type Client struct {
	client  http.Client
	logger  *slog.Logger
	metrics *metrics.Recorder

	endpoint    string
	proxies     map[string]*url.URL
	timeout     time.Duration
	transport   gohttp.RoundTripper
	concurrency int

	rawProxies map[string]string
}

type ClientOption func(*Client)

// WithProxies sets a scheme to proxy mapping, e.g.
// {"https": "https://myproxy.com", "http": "http://myproxy.com"}.
func WithProxies(proxies map[string]string) ClientOption {
	return func(c *Client) {
		c.rawProxies = proxies
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithTransport(rt gohttp.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithConcurrency limits the number of upstream requests in flight per
// search. Zero or less means no limit.
func WithConcurrency(n int) ClientOption {
	return func(c *Client) {
		c.concurrency = n
	}
}

func WithMetrics(r *metrics.Recorder) ClientOption {
	return func(c *Client) {
		c.metrics = r
	}
}

// New creates a client authenticating with apiKey, which can be acquired
// via https://datamarket.azure.com/dataset/bing/search.
func New(apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		logger:   slog.New(slog.DiscardHandler),
		endpoint: Endpoint,
		timeout:  http.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if apiKey == "" {
		c.logger.Error("cannot create bing client", "err", ErrMissingApiKey)
		return nil, ErrMissingApiKey
	}

	proxies, err := http.ParseProxies(c.rawProxies)
	if err != nil {
		c.logger.Error("cannot create bing client", "err", err)
		return nil, fmt.Errorf("invalid proxy configuration: %w", err)
	}
	c.proxies = proxies
	c.rawProxies = nil

	httpOpts := []http.ClientOption{
		http.WithBasicAuth(apiKey),
		http.WithTimeout(c.timeout),
		http.WithProxies(c.proxies),
	}
	if c.transport != nil {
		httpOpts = append(httpOpts, http.WithTransport(c.transport))
	}
	c.client, err = http.NewClient(c.endpoint, httpOpts...)
	if err != nil {
		c.logger.Error("cannot create bing client", "err", err)
		return nil, fmt.Errorf("invalid proxy configuration: %w", err)
	}

	c.logger.Debug("bing client initialized", "endpoint", c.endpoint, "timeout", c.timeout)
	for scheme, u := range c.proxies {
		c.logger.Debug("bing client using proxy", "scheme", scheme, "proxy", u.Redacted())
	}

	return c, nil
}

// Search runs req against the API. All upstream requests are issued
// concurrently; the first failure cancels the remaining ones and is
// returned. Nothing is retried.
func (c *Client) Search(ctx context.Context, req Request) (*Response, error) {
	req = req.withDefaults()
	id := uuid.NewString()
	log := c.logger.With("request_id", id, "type", string(req.Type))

	if err := req.validate(); err != nil {
		log.Error("invalid search request", "err", err)
		return nil, err
	}

	queries := req.pageQueries()
	log.Debug("searching",
		"terms", len(req.Terms),
		"quoting", req.Quoting,
		"markets", len(req.Markets),
		"categories", len(req.Categories),
		"pages", req.Pages,
		"results_per_page", req.ResultsPerPage,
		"format", string(req.Format),
		"requests", len(queries),
	)

	pages := make([]Page, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	for i, q := range queries {
		g.Go(func() error {
			page, err := c.fetch(gctx, log, req.Type, q)
			if err != nil {
				return err
			}
			pages[i] = *page
			return nil
		})
	}

	start := time.Now()
	if err := g.Wait(); err != nil {
		log.Error("search failed", "err", err, "elapsed", time.Since(start))
		return nil, err
	}

	log.Info("search completed", "requests", len(queries), "elapsed", time.Since(start))
	return &Response{
		RequestID: id,
		Format:    req.Format,
		Pages:     pages,
		logger:    log,
	}, nil
}

func (c *Client) fetch(ctx context.Context, log *slog.Logger, t SearchType, q pageQuery) (*Page, error) {
	uri, err := c.client.URL(string(t), q.Query)
	if err != nil {
		err = fmt.Errorf("%w: invalid endpoint: %w", ErrTransport, err)
		log.Error("cannot build bing api url", "endpoint", c.endpoint, "err", err)
		return nil, err
	}
	log.Debug("calling bing api", "url", uri)

	start := time.Now()
	resp, err := c.client.Get(ctx, string(t), q.Query)
	if err != nil {
		err = wrapError(err)
		c.metrics.Observe(string(t), outcome(err), time.Since(start))
		log.Warn("bing api request failed", "url", uri, "err", err)
		return nil, err
	}
	c.metrics.Observe(string(t), outcome(nil), time.Since(start))
	log.Debug("bing api responded", "url", uri, "status", resp.StatusCode, "bytes", len(resp.Body))

	return &Page{
		Market:   q.Market,
		Category: q.Category,
		Skip:     q.Skip,
		URL:      resp.URL,
		Body:     string(resp.Body),
	}, nil
}

// WebSearch searches the web in the given markets. An empty market list
// lets the API pick a market from the caller's IP.
func (c *Client) WebSearch(ctx context.Context, terms []string, markets []string, opts ...SearchOption) (*Response, error) {
	req := Request{
		Type:    SearchTypeWeb,
		Terms:   terms,
		Markets: markets,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return c.Search(ctx, req)
}

// WebSearchEnglish searches the web in every English speaking market.
// Markets set through options are ignored.
func (c *Client) WebSearchEnglish(ctx context.Context, terms []string, opts ...SearchOption) (*Response, error) {
	opts = append(opts, func(r *Request) { r.Markets = EnglishMarkets() })
	return c.WebSearch(ctx, terms, nil, opts...)
}

// NewsSearch searches news restricted to categories (see the Category
// constants) and markets. Both may be empty. The result is JSON unless
// WithFormat(FormatAtom) is given.
func (c *Client) NewsSearch(ctx context.Context, terms []string, categories []string, markets []string, opts ...SearchOption) (*Response, error) {
	req := Request{
		Type:       SearchTypeNews,
		Terms:      terms,
		Categories: categories,
		Markets:    markets,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return c.Search(ctx, req)
}

// SearchOption adjusts the request built by the convenience methods.
type SearchOption func(*Request)

func WithFormat(f Format) SearchOption {
	return func(r *Request) {
		r.Format = f
	}
}

func WithQuoting(quoting bool) SearchOption {
	return func(r *Request) {
		r.Quoting = quoting
	}
}

func WithAdult(a Adult) SearchOption {
	return func(r *Request) {
		r.Adult = a
	}
}

func WithPages(pages int) SearchOption {
	return func(r *Request) {
		r.Pages = pages
	}
}

func WithResultsPerPage(n int) SearchOption {
	return func(r *Request) {
		r.ResultsPerPage = n
	}
}

func WithLocation(latitude, longitude float64) SearchOption {
	return func(r *Request) {
		r.Latitude = &latitude
		r.Longitude = &longitude
	}
}

func WithParams(p Params) SearchOption {
	return func(r *Request) {
		r.Params = p
	}
}
