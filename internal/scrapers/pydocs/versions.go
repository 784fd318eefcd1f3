package pydocs

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"docsparser/internal/report"
	"docsparser/internal/scrapers/scrapeerr"
	"docsparser/pkg/htmlutil"
)

const ModeLatestVersions = "latest-versions"

const report_client_latest_versions = "client.latest-versions"

// ErrVersionListNotFound is returned when no list in the sidebar links to
// all versions, meaning the sidebar is not laid out the way it used to be.
var ErrVersionListNotFound = errors.New("could not find the list of all versions in the sidebar")

var versionRegex = regexp.MustCompile(`Python (?P<version>\d\.\d+) \((?P<status>.*)\)`)

// parseVersion extracts the version and status out of anchor text like
// "Python 3.12 (stable)", whitespace in `text` is normalized before matching.
// Text that does not look like that is returned unchanged as the version with
// an empty status.
func parseVersion(text string) (version, status string) {
	groups := versionRegex.FindStringSubmatch(htmlutil.NormalizeText(text))
	if groups == nil {
		return text, ""
	}
	return groups[versionRegex.SubexpIndex("version")], groups[versionRegex.SubexpIndex("status")]
}

// LatestVersions lists every documentation version linked from the sidebar
// of the documentation root.
func (c *Client) LatestVersions(ctx context.Context) (report.Result, error) {
	res := c.http.Fetch(ctx, c.docUrl)
	if res == nil {
		return nil, nil
	}
	doc, err := htmlutil.Parse(res.Body)
	if err != nil {
		return nil, scrapeerr.Abort(ModeLatestVersions, fmt.Errorf("parse %s: %w", c.docUrl, err))
	}

	sidebar, err := htmlutil.FindTag(doc.Selection, htmlutil.Q("div", htmlutil.Class("sphinxsidebarwrapper")))
	if err != nil {
		c.tel.ReportBroken(report_client_latest_versions, err)
		return nil, scrapeerr.Abort(ModeLatestVersions, err)
	}

	var anchors []htmlutil.Anchor
	found := false
	lists := htmlutil.FindAll(sidebar, htmlutil.Q("ul"))
	for i := 0; i < lists.Length(); i++ {
		list := lists.Eq(i)
		if strings.Contains(list.Text(), "All versions") {
			anchors = htmlutil.GetAnchors(htmlutil.FindAll(list, htmlutil.Q("a")))
			found = true
			break
		}
	}
	if !found {
		c.tel.ReportBroken(report_client_latest_versions, ErrVersionListNotFound, c.docUrl)
		return nil, ErrVersionListNotFound
	}

	result := report.New("Ссылка на документацию", "Версия", "Статус")
	for _, a := range anchors {
		version, status := parseVersion(a.Text)
		result.Append(a.Href, version, status)
	}
	return result, nil
}
