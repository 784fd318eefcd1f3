package peps

import (
	"context"
	"fmt"
	"strings"

	"docsparser/internal/report"
	"docsparser/internal/scrapers/scrapeerr"
	"docsparser/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Mode is the name the audit is registered under.
const Mode = "pep"

const (
	report_client_audit      = "client.audit"
	report_client_audit_row  = "client.audit-row"
	report_client_audit_seen = "client.audit-total"
	report_client_audit_skip = "client.audit-skipped"
)

// Audit walks every pep listed in the numerical index, reads the status
// shown on the pep's own page and counts how many peps are in each status.
// The last row is ("Total", <number of peps in the index>), peps whose page
// could not be read count toward the total but not toward any status.
//
// A nil result with a nil error means the index page itself was unavailable.
func (c *Client) Audit(ctx context.Context) (report.Result, error) {
	res := c.http.Fetch(ctx, c.indexUrl)
	if res == nil {
		return nil, nil
	}
	doc, err := htmlutil.Parse(res.Body)
	if err != nil {
		return nil, scrapeerr.Abort(Mode, fmt.Errorf("parse pep index: %w", err))
	}

	indexQuery := htmlutil.Q("section", htmlutil.ID("numerical-index"))
	index, err := htmlutil.FindTag(doc.Selection, indexQuery)
	if err != nil {
		c.tel.ReportBroken(report_client_audit, err)
		return nil, scrapeerr.Abort(Mode, err)
	}
	if err := htmlutil.RequireSourceTag(res.Body, indexQuery, htmlutil.Q("tbody")); err != nil {
		c.tel.ReportBroken(report_client_audit, err)
		return nil, scrapeerr.Abort(Mode, err)
	}
	tbody, err := htmlutil.FindTag(index, htmlutil.Q("tbody"))
	if err != nil {
		c.tel.ReportBroken(report_client_audit, err)
		return nil, scrapeerr.Abort(Mode, err)
	}
	rows := htmlutil.FindAll(tbody, htmlutil.Q("tr"))

	tally := NewTally()
	total := 0
	skipped := 0
	tracker := c.progress.Start(Mode, rows.Length())
	defer tracker.Done()
	for i := 0; i < rows.Length(); i++ {
		total++

		status, err := c.auditRow(ctx, rows.Eq(i))
		tracker.Step()
		if scrapeerr.IsSkipRow(err) {
			skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		tally.Add(status)
	}

	c.tel.ReportCount(report_client_audit_seen, int64(total))
	c.tel.ReportCount(report_client_audit_skip, int64(skipped))

	result := report.New("Статус", "Количество")
	for _, status := range tally.Keys() {
		result.Append(status, tally.Count(status))
	}
	result.Append("Total", total)
	return result, nil
}

// statusCode returns the status letter of an index row, the first letter of
// the cell is the pep type.
func statusCode(cell string) string {
	runes := []rune(strings.TrimSpace(cell))
	if len(runes) == 0 {
		return ""
	}
	return string(runes[1:])
}

// auditRow returns the status shown on the page of the pep in `row`.
func (c *Client) auditRow(ctx context.Context, row *goquery.Selection) (string, error) {
	cell := row.Find("td").First()
	if cell.Length() == 0 {
		err := fmt.Errorf("row %q has no cells", htmlutil.NormalizeText(row.Text()))
		c.tel.ReportBroken(report_client_audit_row, err)
		return "", scrapeerr.SkipRow(err)
	}
	code := statusCode(cell.Text())
	expected, known := c.statuses.Lookup(code)
	if !known {
		c.tel.ReportWarning(
			report_client_audit_row,
			fmt.Errorf("unknown status code %q", code),
			htmlutil.NormalizeText(row.Text()),
		)
	}

	href, ok := row.Find("a[href]").First().Attr("href")
	if !ok {
		err := fmt.Errorf("row %q has no link", htmlutil.NormalizeText(row.Text()))
		c.tel.ReportBroken(report_client_audit_row, err)
		return "", scrapeerr.SkipRow(err)
	}
	link, err := htmlutil.ResolveHref(c.indexUrl, href)
	if err != nil {
		c.tel.ReportBroken(report_client_audit_row, err)
		return "", scrapeerr.SkipRow(err)
	}

	res := c.http.Fetch(ctx, link)
	if res == nil {
		return "", scrapeerr.SkipRow(fmt.Errorf("page %s unavailable", link))
	}
	page, err := htmlutil.Parse(res.Body)
	if err != nil {
		return "", scrapeerr.Abort(Mode, fmt.Errorf("parse %s: %w", link, err))
	}

	fields, err := htmlutil.FindTag(page.Selection, htmlutil.Q("dl"))
	if err != nil {
		c.tel.ReportBroken(report_client_audit, err, link)
		return "", scrapeerr.Abort(Mode, fmt.Errorf("%s: %w", link, err))
	}
	label := htmlutil.FindText(fields, "Status")
	if label == nil {
		err := fmt.Errorf("page %s has no status", link)
		c.tel.ReportBroken(report_client_audit_row, err)
		return "", scrapeerr.SkipRow(err)
	}
	_, status, ok := htmlutil.NextTextSibling(label.Parent)
	if !ok {
		err := fmt.Errorf("page %s has an empty status", link)
		c.tel.ReportBroken(report_client_audit_row, err)
		return "", scrapeerr.SkipRow(err)
	}

	if !c.statuses.Accepts(code, status) {
		c.tel.ReportInfo(
			"status mismatch",
			link,
			fmt.Sprintf("page: %s", status),
			fmt.Sprintf("index: %v", expected),
		)
	}
	return status, nil
}
