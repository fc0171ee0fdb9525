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
	"fmt"
	"log/slog"

	"github.com/alan-mat/bingasync/internal/aggregate"
)

// Page is the raw result of one upstream request.
type Page struct {
	Market   string
	Category string
	Skip     int
	URL      string
	Body     string
}

type Response struct {
	RequestID string
	Format    Format
	Pages     []Page

	logger *slog.Logger
}

// Text returns the response body. A single page is returned exactly as the
// API sent it. Several pages are combined into one document of the
// requested format.
func (r *Response) Text() (string, error) {
	text, err := r.text()
	if err != nil {
		r.log().Error("failed to combine response pages", "pages", len(r.Pages), "format", string(r.Format), "err", err)
		return "", err
	}
	return text, nil
}

func (r *Response) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

func (r *Response) text() (string, error) {
	switch len(r.Pages) {
	case 0:
		return "", aggregate.ErrNoPages
	case 1:
		return r.Pages[0].Body, nil
	}

	bodies := make([]string, 0, len(r.Pages))
	for _, p := range r.Pages {
		bodies = append(bodies, p.Body)
	}

	switch r.Format {
	case FormatJSON:
		return aggregate.JSON(bodies)
	case FormatAtom:
		return aggregate.Atom(bodies)
	default:
		return "", fmt.Errorf("%w '%s'", ErrUnknownFormat, r.Format)
	}
}
