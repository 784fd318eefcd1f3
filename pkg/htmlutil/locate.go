package htmlutil

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AttrMatcher is a predicate on one attribute of an element.
type AttrMatcher struct {
	Key   string
	match func(value string) bool
	desc  string
}

func (m AttrMatcher) String() string {
	return fmt.Sprintf("%s%s", m.Key, m.desc)
}

// Attr matches elements whose attribute `key` equals `value`.
func Attr(key, value string) AttrMatcher {
	return AttrMatcher{
		Key:   key,
		match: func(v string) bool { return v == value },
		desc:  fmt.Sprintf("=%q", value),
	}
}

// AttrMatches matches elements whose attribute `key` matches `pattern`.
func AttrMatches(key string, pattern *regexp.Regexp) AttrMatcher {
	return AttrMatcher{
		Key:   key,
		match: pattern.MatchString,
		desc:  fmt.Sprintf("=~%q", pattern.String()),
	}
}

// Class matches elements that have `name` among their classes.
func Class(name string) AttrMatcher {
	return AttrMatcher{
		Key: "class",
		match: func(v string) bool {
			return slices.Contains(strings.Fields(v), name)
		},
		desc: fmt.Sprintf("~=%q", name),
	}
}

// ID matches elements whose id is `id`.
func ID(id string) AttrMatcher {
	return Attr("id", id)
}

// Query describes an element by tag name and attribute predicates.
type Query struct {
	Tag   string
	Attrs []AttrMatcher
}

// Q is shorthand for constructing a Query.
func Q(tag string, attrs ...AttrMatcher) Query {
	return Query{Tag: tag, Attrs: attrs}
}

func (q Query) String() string {
	attrs := make([]string, len(q.Attrs))
	for i, a := range q.Attrs {
		attrs[i] = a.String()
	}
	return fmt.Sprintf("tag %q with attrs {%s}", q.Tag, strings.Join(attrs, ", "))
}

func (q Query) matches(sel *goquery.Selection) bool {
	for _, attr := range q.Attrs {
		value, ok := sel.Attr(attr.Key)
		if !ok || !attr.match(value) {
			return false
		}
	}
	return true
}

// FindAll returns every descendant of `sel` matching the query in document order.
func FindAll(sel *goquery.Selection, q Query) *goquery.Selection {
	return sel.Find(q.Tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return q.matches(s)
	})
}

// TagNotFoundError is returned by FindTag when nothing matches the query,
// it means the page no longer has the structure it is expected to have.
type TagNotFoundError struct {
	Query Query
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Query)
}

// FindTag returns the first descendant of `sel` matching the query in
// document order or a *TagNotFoundError.
func FindTag(sel *goquery.Selection, q Query) (*goquery.Selection, error) {
	found := FindAll(sel, q).First()
	if found.Length() == 0 {
		return nil, &TagNotFoundError{Query: q}
	}
	return found, nil
}
