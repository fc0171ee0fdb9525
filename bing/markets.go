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

// englishMarkets are all markets served in English.
var englishMarkets = []string{
	"en-AU", "en-CA", "en-GB", "en-ID", "en-IE", "en-IN", "en-MY",
	"en-NZ", "en-PH", "en-SG", "en-US", "en-XA", "en-ZA",
}

// EnglishMarkets returns a copy of the market codes used by WebSearchEnglish.
func EnglishMarkets() []string {
	markets := make([]string, len(englishMarkets))
	copy(markets, englishMarkets)
	return markets
}

// News categories accepted by the news search type.
const (
	CategoryBusiness             = "Business"
	CategoryEntertainment        = "Entertainment"
	CategoryHealth               = "Health"
	CategoryPolitics             = "Politics"
	CategorySports               = "Sports"
	CategoryUS                   = "US"
	CategoryWorld                = "World"
	CategoryScienceAndTechnology = "Science_and_Technology"
)

const categoryPrefix = "rt_"
