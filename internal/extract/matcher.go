package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Matcher describes an attribute-substring selection over an HTML document.
type Matcher struct {
	// Selector is a CSS selector naming candidate elements, e.g. "img".
	Selector string
	// Attrs lists the attribute names inspected on the element and its ancestors.
	Attrs []string
	// Targets lists substrings; any one of them inside any inspected attribute is a hit.
	Targets []string
}

// Matches returns the elements selected by m.Selector whose own attributes,
// or whose ancestors' attributes, contain one of m.Targets. Document order is
// preserved.
func (m Matcher) Matches(doc *goquery.Document) *goquery.Selection {
	if doc == nil || strings.TrimSpace(m.Selector) == "" {
		return &goquery.Selection{}
	}
	return doc.Find(m.Selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return m.attrMatches(s) || m.parentMatches(s)
	})
}

func (m Matcher) attrMatches(s *goquery.Selection) bool {
	for _, attr := range m.Attrs {
		value, ok := s.Attr(attr)
		if !ok {
			continue
		}
		for _, target := range m.Targets {
			if target != "" && strings.Contains(value, target) {
				return true
			}
		}
	}
	return false
}

func (m Matcher) parentMatches(s *goquery.Selection) bool {
	found := false
	s.Parents().EachWithBreak(func(_ int, parent *goquery.Selection) bool {
		found = m.attrMatches(parent)
		return !found
	})
	return found
}
