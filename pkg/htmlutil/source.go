package htmlutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"golang.org/x/net/html"
)

// RequireSourceTag checks that the raw markup in `body` has a start tag
// matching `q` inside the first element matching `within`.
//
// The parser behind Parse inserts elements the source never had (a table
// always gets a tbody), so FindTag on the parsed tree cannot tell whether
// the page really has them. A *TagNotFoundError names whichever of the two
// queries was missing.
func RequireSourceTag(body []byte, within, q Query) error {
	z := html.NewTokenizer(bytes.NewReader(body))
	found := false
	depth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return fmt.Errorf("tokenize: %w", z.Err())
			}
			if !found {
				return &TagNotFoundError{Query: within}
			}
			return &TagNotFoundError{Query: q}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if depth > 0 && q.matchesToken(tok) {
				return nil
			}
			if depth == 0 && !found && within.matchesToken(tok) {
				found = true
				depth = 1
				continue
			}
			// nested elements of the same kind as the container
			if depth > 0 && tok.Type == html.StartTagToken && tok.Data == within.Tag {
				depth++
			}
		case html.EndTagToken:
			if depth == 0 {
				continue
			}
			if tok := z.Token(); tok.Data == within.Tag {
				depth--
				if depth == 0 {
					return &TagNotFoundError{Query: q}
				}
			}
		}
	}
}

func (q Query) matchesToken(tok html.Token) bool {
	if tok.Data != q.Tag {
		return false
	}
	for _, attr := range q.Attrs {
		i := slices.IndexFunc(tok.Attr, func(a html.Attribute) bool { return a.Key == attr.Key })
		if i < 0 || !attr.match(tok.Attr[i].Val) {
			return false
		}
	}
	return true
}
