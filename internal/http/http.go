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

package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	gohttp "net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 60 * time.Second

// maximum number of body bytes included in error messages
const errorBodyLimit = 512

var (
	ErrUnsupportedProxyScheme    = errors.New("proxy key must be 'http' or 'https'")
	ErrProxyUnsupportedTransport = errors.New("proxies require an *http.Transport")
)

type Client struct {
	httpClient *gohttp.Client
	transport  gohttp.RoundTripper
	timeout    time.Duration

	endpoint string
	apiKey   string
	proxies  map[string]*url.URL
}

type ClientOption func(*Client)

// NewClient fails with ErrProxyUnsupportedTransport when proxies are set
// together with a round tripper that can not carry them.
func NewClient(endpoint string, opts ...ClientOption) (Client, error) {
	c := Client{
		endpoint: endpoint,
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		opt(&c)
	}

	rt, err := c.buildTransport()
	if err != nil {
		return Client{}, err
	}

	c.httpClient = &gohttp.Client{
		Timeout:   c.timeout,
		Transport: rt,
	}
	return c, nil
}

// WithBasicAuth sends the key as both user name and password of a basic
// auth header.
func WithBasicAuth(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTransport replaces the default round tripper. Combined with
// WithProxies, rt must be an *http.Transport.
func WithTransport(rt gohttp.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithProxies routes requests through the proxy registered for their URL
// scheme. See ParseProxies.
func WithProxies(proxies map[string]*url.URL) ClientOption {
	return func(c *Client) {
		c.proxies = proxies
	}
}

// ParseProxies validates a scheme to proxy URL mapping such as
// {"https": "https://myproxy.com"}. Empty values are skipped.
func ParseProxies(raw map[string]string) (map[string]*url.URL, error) {
	proxies := make(map[string]*url.URL, len(raw))
	for scheme, rawURL := range raw {
		scheme = strings.ToLower(strings.TrimSpace(scheme))
		if scheme != "http" && scheme != "https" {
			return nil, fmt.Errorf("%w, got '%s'", ErrUnsupportedProxyScheme, scheme)
		}
		if rawURL == "" {
			continue
		}

		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid %s proxy url: %w", scheme, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid %s proxy url '%s': scheme and host are required", scheme, u.Redacted())
		}
		proxies[scheme] = u
	}
	return proxies, nil
}

// ProxyFunc returns the proxy selector used by the client transport.
func ProxyFunc(proxies map[string]*url.URL) func(*gohttp.Request) (*url.URL, error) {
	return func(req *gohttp.Request) (*url.URL, error) {
		if u, ok := proxies[req.URL.Scheme]; ok {
			return u, nil
		}
		return nil, nil
	}
}

func (c *Client) buildTransport() (gohttp.RoundTripper, error) {
	rt := c.transport
	if rt == nil {
		rt = gohttp.DefaultTransport
	}
	if len(c.proxies) == 0 {
		return rt, nil
	}

	t, ok := rt.(*gohttp.Transport)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrProxyUnsupportedTransport, rt)
	}
	t = t.Clone()
	t.Proxy = ProxyFunc(c.proxies)
	return t, nil
}

type Response struct {
	StatusCode int
	Body       []byte
	URL        string
}

type StatusError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *StatusError) Error() string {
	body := e.Body
	// truncate error responses
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return fmt.Sprintf("(HTTP Error %d) %s", e.StatusCode, string(body))
}

// Get issues a single GET request against endpoint/path. Responses with a
// status of 400 or above are returned as *StatusError. No retries are
// performed.
func (c *Client) Get(ctx context.Context, path string, query Query) (*Response, error) {
	uri, err := c.URL(path, query)
	if err != nil {
		return nil, err
	}

	req, err := gohttp.NewRequestWithContext(ctx, gohttp.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	if c.apiKey != "" {
		req.SetBasicAuth(c.apiKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       body,
			URL:        uri,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		URL:        uri,
	}, nil
}

// URL resolves path against the client endpoint and attaches the encoded
// query.
func (c *Client) URL(path string, query Query) (string, error) {
	uri, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}
	if path != "" {
		uri = uri.JoinPath(path)
	}
	uri.RawQuery = query.Encode()
	return uri.String(), nil
}
