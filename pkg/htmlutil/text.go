package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FindText returns the first text node under `sel` (document order) whose
// content equals `text` once surrounding whitespace is trimmed, or nil.
func FindText(sel *goquery.Selection, text string) *html.Node {
	for _, root := range sel.Nodes {
		found := findTextRecursive(root, text)
		if found != nil {
			return found
		}
	}
	return nil
}

func findTextRecursive(node *html.Node, text string) *html.Node {
	if node.Type == html.TextNode {
		if strings.TrimSpace(node.Data) == text {
			return node
		}
		return nil
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		found := findTextRecursive(child, text)
		if found != nil {
			return found
		}
	}
	return nil
}

// NextTextSibling returns the first sibling after `node` with non-whitespace
// text content and that text, trimmed. Whitespace-only text nodes and
// comments in between are skipped.
func NextTextSibling(node *html.Node) (*html.Node, string, bool) {
	if node == nil {
		return nil, "", false
	}
	for sibling := node.NextSibling; sibling != nil; sibling = sibling.NextSibling {
		if sibling.Type != html.TextNode && sibling.Type != html.ElementNode {
			continue
		}
		text := strings.TrimSpace(GetText(sibling))
		if text != "" {
			return sibling, text, true
		}
	}
	return nil, "", false
}
