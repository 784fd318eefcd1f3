package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse builds a queryable document out of an html payload.
func Parse(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// GetText concatenates every text node under `node` in document order.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	// Name is the normalized text of the anchor.
	Name string
	// Text is the anchor text as found in the page.
	Text string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeText removes non-printable characters, trims the string and
// collapses inner runs of whitespace into a single space.
func NormalizeText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// GetAnchors returns the name and raw href of every node in the selection.
// Nodes without an href are returned with an empty Href.
func GetAnchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		text := GetText(n)
		anchors = append(anchors, Anchor{
			Name: NormalizeText(text),
			Text: text,
			Href: href,
		})
	}
	return anchors
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// CollapseLineBreaks replaces every run of line breaks with a single space.
func CollapseLineBreaks(s string) string {
	return lineBreaks.ReplaceAllString(s, " ")
}
