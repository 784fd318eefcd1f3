package pydocs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"docsparser/internal/scrapers/scrapeerr"
	"docsparser/pkg/htmlutil"
)

const ModeDownload = "download"

const report_client_download = "client.download"

var pdfA4Archive = regexp.MustCompile(`.+pdf-a4\.zip$`)

// Download saves the zipped A4 pdf documentation linked from the downloads
// page into the downloads directory, returning the path written. An empty
// path with a nil error means the downloads page was unavailable.
func (c *Client) Download(ctx context.Context) (string, error) {
	downloadsUrl, err := htmlutil.ResolveHref(c.docUrl, "download.html")
	if err != nil {
		return "", scrapeerr.Abort(ModeDownload, err)
	}
	res := c.http.Fetch(ctx, downloadsUrl)
	if res == nil {
		return "", nil
	}
	doc, err := htmlutil.Parse(res.Body)
	if err != nil {
		return "", scrapeerr.Abort(ModeDownload, fmt.Errorf("parse %s: %w", downloadsUrl, err))
	}

	table, err := htmlutil.FindTag(doc.Selection, htmlutil.Q("table", htmlutil.Class("docutils")))
	if err != nil {
		c.tel.ReportBroken(report_client_download, err)
		return "", scrapeerr.Abort(ModeDownload, err)
	}
	anchor, err := htmlutil.FindTag(table, htmlutil.Q("a", htmlutil.AttrMatches("href", pdfA4Archive)))
	if err != nil {
		c.tel.ReportBroken(report_client_download, err)
		return "", scrapeerr.Abort(ModeDownload, err)
	}

	archiveUrl, err := htmlutil.ResolveHref(downloadsUrl, anchor.AttrOr("href", ""))
	if err != nil {
		return "", scrapeerr.Abort(ModeDownload, err)
	}
	filename, err := archiveName(archiveUrl)
	if err != nil {
		return "", scrapeerr.Abort(ModeDownload, err)
	}

	err = os.MkdirAll(c.downloadsDir, 0755)
	if err != nil {
		return "", fmt.Errorf("create downloads dir: %w", err)
	}
	archive, err := c.http.Download(ctx, archiveUrl)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", archiveUrl, err)
	}

	archivePath := filepath.Join(c.downloadsDir, filename)
	err = os.WriteFile(archivePath, archive, 0644)
	if err != nil {
		return "", fmt.Errorf("save archive: %w", err)
	}
	c.tel.ReportInfo("archive downloaded and saved", archivePath)
	return archivePath, nil
}

// archiveName returns the last segment of the url's path.
func archiveName(archiveUrl string) (string, error) {
	parsed, err := url.Parse(archiveUrl)
	if err != nil {
		return "", err
	}
	name := path.Base(parsed.Path)
	if name == "/" || name == "." {
		return "", fmt.Errorf("archive url %s has no file name", archiveUrl)
	}
	return name, nil
}
