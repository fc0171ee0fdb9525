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

// Package aggregate combines the raw bodies of several paged search
// responses into one document of the same format.
package aggregate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	ErrNoPages       = errors.New("no pages to aggregate")
	ErrInvalidJSON   = errors.New("page is not valid json")
	ErrMissingResult = errors.New("page has no 'd.results' array")
	ErrNoFeed        = errors.New("page has no root element")
)

const emptyJSON = `{"d":{"results":[]}}`

// JSON concatenates the d.results arrays of all pages, in page order.
func JSON(pages []string) (string, error) {
	if len(pages) == 0 {
		return "", ErrNoPages
	}

	out := emptyJSON
	for i, page := range pages {
		if !gjson.Valid(page) {
			return "", fmt.Errorf("page %d: %w", i, ErrInvalidJSON)
		}

		results := gjson.Get(page, "d.results")
		if !results.IsArray() {
			return "", fmt.Errorf("page %d: %w", i, ErrMissingResult)
		}

		var err error
		for _, r := range results.Array() {
			out, err = sjson.SetRaw(out, "d.results.-1", r.Raw)
			if err != nil {
				return "", fmt.Errorf("page %d: %w", i, err)
			}
		}
	}
	return out, nil
}

// Atom appends the entries of every feed to the first one. The feed level
// id and link elements are dropped since they only describe the first page.
func Atom(pages []string) (string, error) {
	if len(pages) == 0 {
		return "", ErrNoPages
	}

	var doc, feed *xmlquery.Node
	for i, page := range pages {
		d, err := xmlquery.Parse(strings.NewReader(page))
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		root := documentElement(d)
		if root == nil {
			return "", fmt.Errorf("page %d: %w", i, ErrNoFeed)
		}

		if feed == nil {
			doc, feed = d, root
			continue
		}

		for _, entry := range childElements(root, "entry") {
			xmlquery.RemoveFromTree(entry)
			xmlquery.AddChild(feed, entry)
		}
	}

	for _, name := range []string{"id", "link"} {
		if els := childElements(feed, name); len(els) > 0 {
			xmlquery.RemoveFromTree(els[0])
		}
	}

	return doc.OutputXML(false), nil
}

func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// matches on local name, so the atom default namespace is irrelevant
func childElements(parent *xmlquery.Node, name string) []*xmlquery.Node {
	var nodes []*xmlquery.Node
	for n := parent.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode && n.Data == name {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
