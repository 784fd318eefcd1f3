package htmlutil

import (
	"errors"
	"regexp"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div class="sidebar wide" id="side">
  <ul><li><a href="/a">First  link</a></li></ul>
</div>
<table class="docutils">
  <tr><td><a href="archives/python-docs-pdf-letter.zip">Letter</a></td></tr>
  <tr><td><a href="archives/python-docs-pdf-a4.zip">A4</a></td></tr>
  <tr><td><a href="archives/python-docs-pdf-a4.tar.bz2">A4 bz2</a></td></tr>
</table>
<dl class="rfc2822 field-list simple">
<dt class="field-odd">Author<span class="colon">:</span></dt>
<dd class="field-odd">Someone</dd>
<dt class="field-even">Status<span class="colon">:</span></dt>
<!-- status -->
<dd class="field-even"><abbr title="Accepted and implementation complete">Final</abbr></dd>
</dl>
</body></html>`

func parse(t *testing.T, contents string) *goquery.Document {
	doc, err := Parse([]byte(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestFindTag(t *testing.T) {
	doc := parse(t, page)

	sidebar, err := FindTag(doc.Selection, Q("div", Class("sidebar")))
	require.NoError(t, err)
	require.Equal(t, "side", sidebar.AttrOr("id", ""))

	_, err = FindTag(doc.Selection, Q("div", Attr("class", "sidebar")))
	require.Error(t, err)

	table, err := FindTag(doc.Selection, Q("table", Class("docutils")))
	require.NoError(t, err)

	a4, err := FindTag(table, Q("a", AttrMatches("href", regexp.MustCompile(`.+pdf-a4\.zip$`))))
	require.NoError(t, err)
	require.Equal(t, "archives/python-docs-pdf-a4.zip", a4.AttrOr("href", ""))

	// the first match in document order wins
	first, err := FindTag(table, Q("a"))
	require.NoError(t, err)
	require.Equal(t, "Letter", first.Text())
}

func TestFindTagNotFound(t *testing.T) {
	doc := parse(t, page)

	_, err := FindTag(doc.Selection, Q("section", ID("numerical-index")))
	var notFound *TagNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "section", notFound.Query.Tag)
	require.Equal(t, `tag "section" with attrs {id="numerical-index"} not found`, err.Error())

	_, err = FindTag(doc.Selection, Q("caption"))
	require.EqualError(t, err, `tag "caption" with attrs {} not found`)

	// the parser adds a tbody the markup never had
	_, err = FindTag(doc.Selection, Q("tbody"))
	require.NoError(t, err)
}

func TestRequireSourceTag(t *testing.T) {
	index := Q("section", ID("numerical-index"))
	tbody := Q("tbody")

	tests := []struct {
		name    string
		body    string
		missing *Query
	}{
		{
			name: "tbody in markup",
			body: `<section id="numerical-index"><table><tbody><tr><td>SF</td></tr></tbody></table></section>`,
		},
		{
			name:    "rows without tbody",
			body:    `<section id="numerical-index"><table><tr><td>SF</td></tr><tr><td>IA</td></tr></table></section>`,
			missing: &tbody,
		},
		{
			name:    "tbody outside the container",
			body:    `<section id="numerical-index"><table><tr><td>SF</td></tr></table></section><table><tbody></tbody></table>`,
			missing: &tbody,
		},
		{
			name: "tbody in a nested section",
			body: `<section id="numerical-index"><section><p>x</section><table><tbody></tbody></table></section>`,
		},
		{
			name:    "no container",
			body:    page,
			missing: &index,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireSourceTag([]byte(tt.body), index, tbody)
			if tt.missing == nil {
				require.NoError(t, err)
				return
			}
			var notFound *TagNotFoundError
			require.True(t, errors.As(err, &notFound))
			require.Equal(t, tt.missing.String(), notFound.Query.String())
		})
	}
}

func TestFindAll(t *testing.T) {
	doc := parse(t, page)
	links := FindAll(doc.Selection, Q("a", AttrMatches("href", regexp.MustCompile(`^archives/`))))
	require.Equal(t, 3, links.Length())
}

func TestFindTextAndNextTextSibling(t *testing.T) {
	doc := parse(t, page)
	dl, err := FindTag(doc.Selection, Q("dl"))
	require.NoError(t, err)

	label := FindText(dl, "Status")
	require.NotNil(t, label)
	require.Equal(t, "dt", label.Parent.Data)

	sibling, text, ok := NextTextSibling(label.Parent)
	require.True(t, ok)
	require.Equal(t, "dd", sibling.Data)
	require.Equal(t, "Final", text)

	require.Nil(t, FindText(dl, "Type"))

	_, _, ok = NextTextSibling(nil)
	require.False(t, ok)
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, page)
	anchors := GetAnchors(doc.Find("div.sidebar a"))
	require.Equal(t, []Anchor{{Name: "First link", Text: "First  link", Href: "/a"}}, anchors)
}

func TestCollapseLineBreaks(t *testing.T) {
	require.Equal(t, "Editor: A. Person Release: 3.12", CollapseLineBreaks("Editor: A. Person\nRelease: 3.12"))
	require.Equal(t, " a b ", CollapseLineBreaks("\na\r\n\nb\n"))
}

func TestResolveHref(t *testing.T) {
	testCases := []struct {
		base   string
		href   string
		expect string
	}{
		{base: "https://peps.python.org/", href: "pep-0008/", expect: "https://peps.python.org/pep-0008/"},
		{base: "https://docs.python.org/3/whatsnew/", href: "3.12.html", expect: "https://docs.python.org/3/whatsnew/3.12.html"},
		{base: "https://docs.python.org/3/download.html", href: "archives/python-3.12.0-docs-pdf-a4.zip", expect: "https://docs.python.org/3/archives/python-3.12.0-docs-pdf-a4.zip"},
		{base: "https://docs.python.org/3/", href: "https://www.python.org/doc/versions/", expect: "https://www.python.org/doc/versions/"},
	}
	for _, test := range testCases {
		res, err := ResolveHref(test.base, test.href)
		require.NoError(t, err)
		require.Equal(t, test.expect, res)
	}

	_, err := ResolveHref("https://docs.python.org/3/", "http://[::1")
	require.Error(t, err)
}
