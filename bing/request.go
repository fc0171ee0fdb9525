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
	"sort"
	"strconv"
	"strings"

	"github.com/alan-mat/bingasync/internal/http"
)

type SearchType string

const (
	SearchTypeWeb                 SearchType = "Web"
	SearchTypeNews                SearchType = "News"
	SearchTypeImage               SearchType = "Image"
	SearchTypeVideo               SearchType = "Video"
	SearchTypeRelatedSearch       SearchType = "RelatedSearch"
	SearchTypeSpellingSuggestions SearchType = "SpellingSuggestions"
)

func (t SearchType) valid() bool {
	switch t {
	case SearchTypeWeb, SearchTypeNews, SearchTypeImage, SearchTypeVideo,
		SearchTypeRelatedSearch, SearchTypeSpellingSuggestions:
		return true
	}
	return false
}

type Format string

const (
	FormatJSON Format = "json"
	FormatAtom Format = "atom"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatAtom:
		return f, nil
	}
	return "", fmt.Errorf("%w '%s', expected 'json' or 'atom'", ErrUnknownFormat, s)
}

type Adult string

const (
	AdultOff      Adult = "Off"
	AdultModerate Adult = "Moderate"
	AdultStrict   Adult = "Strict"
)

func ParseAdult(s string) (Adult, error) {
	for _, a := range []Adult{AdultOff, AdultModerate, AdultStrict} {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w '%s', expected 'Off', 'Moderate' or 'Strict'", ErrUnknownAdult, s)
}

const (
	DefaultPages              = 1
	DefaultWebResultsPerPage  = 50
	DefaultNewsResultsPerPage = 15
)

// Params holds additional upstream parameters that are passed through
// verbatim. Values are sent single quoted, as the API expects for strings.
type Params map[string]string

// parameters owned by the client, these can not be set through Params
var reservedParams = map[string]bool{
	"Query":        true,
	"Market":       true,
	"NewsCategory": true,
	"Adult":        true,
	"Latitude":     true,
	"Longitude":    true,
	"$top":         true,
	"$skip":        true,
	"$format":      true,
}

// upstream parameters accepted through Params
var knownParams = map[string]bool{
	"Options":              true,
	"WebSearchOptions":     true,
	"WebFileType":          true,
	"NewsSortBy":           true,
	"NewsLocationOverride": true,
	"ImageFilters":         true,
	"VideoFilters":         true,
	"VideoSortBy":          true,
}

func (p Params) validate() error {
	for k := range p {
		if reservedParams[k] {
			return fmt.Errorf("%w '%s'", ErrReservedParam, k)
		}
		if !knownParams[k] {
			return fmt.Errorf("%w '%s'", ErrUnknownParam, k)
		}
	}
	return nil
}

// Request describes a single logical search. It fans out into one upstream
// request per category, market and page.
type Request struct {
	// Required
	Type  SearchType
	Terms []string

	// Optional
	Markets        []string
	Categories     []string
	Format         Format
	Quoting        bool
	Adult          Adult
	Pages          int
	ResultsPerPage int
	Latitude       *float64
	Longitude      *float64
	Params         Params
}

// withDefaults returns a copy of r with unset fields filled in.
func (r Request) withDefaults() Request {
	if r.Format == "" {
		r.Format = FormatJSON
	} else if f, err := ParseFormat(string(r.Format)); err == nil {
		r.Format = f
	}
	if r.Adult == "" {
		r.Adult = AdultOff
	} else if a, err := ParseAdult(string(r.Adult)); err == nil {
		r.Adult = a
	}
	if r.Pages <= 0 {
		r.Pages = DefaultPages
	}
	if r.ResultsPerPage <= 0 {
		if r.Type == SearchTypeNews {
			r.ResultsPerPage = DefaultNewsResultsPerPage
		} else {
			r.ResultsPerPage = DefaultWebResultsPerPage
		}
	}
	return r
}

func (r Request) validate() error {
	if !r.Type.valid() {
		return fmt.Errorf("%w '%s'", ErrUnknownSearchType, r.Type)
	}
	if len(r.Terms) == 0 {
		return ErrEmptyQuery
	}
	for _, t := range r.Terms {
		if strings.TrimSpace(t) == "" {
			return ErrEmptyQuery
		}
	}
	if _, err := ParseFormat(string(r.Format)); err != nil {
		return err
	}
	if _, err := ParseAdult(string(r.Adult)); err != nil {
		return err
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, *r.Latitude)
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, *r.Longitude)
	}
	return r.Params.validate()
}

// QueryString joins the search terms with single spaces, quoting each term
// first when quoting is set.
func QueryString(terms []string, quoting bool) string {
	if !quoting {
		return strings.Join(terms, " ")
	}

	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+t+`"`)
	}
	return strings.Join(quoted, " ")
}

func odataString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type pageQuery struct {
	Market   string
	Category string
	Skip     int
	Query    http.Query
}

// pageQueries expands r into the upstream queries it needs, ordered by
// category, then market, then page.
func (r Request) pageQueries() []pageQuery {
	categories := r.Categories
	if len(categories) == 0 {
		categories = []string{""}
	}
	markets := r.Markets
	if len(markets) == 0 {
		markets = []string{""}
	}

	extra := make([]string, 0, len(r.Params))
	for k := range r.Params {
		extra = append(extra, k)
	}
	sort.Strings(extra)

	queries := make([]pageQuery, 0, len(categories)*len(markets)*r.Pages)
	for _, category := range categories {
		for _, market := range markets {
			for page := range r.Pages {
				skip := page * r.ResultsPerPage

				q := http.Query{}.Add("Query", odataString(QueryString(r.Terms, r.Quoting)))
				if category != "" {
					q = q.Add("NewsCategory", odataString(categoryPrefix+category))
				}
				if market != "" {
					q = q.Add("Market", odataString(market))
				}
				q = q.Add("Adult", odataString(string(r.Adult)))
				if r.Latitude != nil {
					q = q.Add("Latitude", strconv.FormatFloat(*r.Latitude, 'f', -1, 64))
				}
				if r.Longitude != nil {
					q = q.Add("Longitude", strconv.FormatFloat(*r.Longitude, 'f', -1, 64))
				}
				for _, k := range extra {
					q = q.Add(k, odataString(r.Params[k]))
				}
				q = q.Add("$top", strconv.Itoa(r.ResultsPerPage))
				q = q.Add("$skip", strconv.Itoa(skip))
				q = q.Add("$format", string(r.Format))

				queries = append(queries, pageQuery{
					Market:   market,
					Category: category,
					Skip:     skip,
					Query:    q,
				})
			}
		}
	}
	return queries
}
