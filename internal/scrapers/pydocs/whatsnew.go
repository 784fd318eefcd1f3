package pydocs

import (
	"context"
	"fmt"
	"strings"

	"docsparser/internal/report"
	"docsparser/internal/scrapers/scrapeerr"
	"docsparser/pkg/htmlutil"
)

const ModeWhatsNew = "whats-new"

const report_client_whats_new = "client.whats-new"

// WhatsNew summarizes every "What's New In Python X.Y" article: its url,
// title and the editor/author block. Articles that could not be fetched are
// left out.
func (c *Client) WhatsNew(ctx context.Context) (report.Result, error) {
	indexUrl, err := htmlutil.ResolveHref(c.docUrl, "whatsnew/")
	if err != nil {
		return nil, scrapeerr.Abort(ModeWhatsNew, err)
	}
	res := c.http.Fetch(ctx, indexUrl)
	if res == nil {
		return nil, nil
	}
	doc, err := htmlutil.Parse(res.Body)
	if err != nil {
		return nil, scrapeerr.Abort(ModeWhatsNew, fmt.Errorf("parse %s: %w", indexUrl, err))
	}

	section, err := htmlutil.FindTag(doc.Selection, htmlutil.Q("section", htmlutil.ID("what-s-new-in-python")))
	if err != nil {
		c.tel.ReportBroken(report_client_whats_new, err)
		return nil, scrapeerr.Abort(ModeWhatsNew, err)
	}
	toc, err := htmlutil.FindTag(section, htmlutil.Q("div", htmlutil.Class("toctree-wrapper")))
	if err != nil {
		c.tel.ReportBroken(report_client_whats_new, err)
		return nil, scrapeerr.Abort(ModeWhatsNew, err)
	}
	entries := htmlutil.FindAll(toc, htmlutil.Q("li", htmlutil.Class("toctree-l1")))

	result := report.New("Ссылка на статью", "Заголовок", "Редактор, Автор")
	tracker := c.progress.Start(ModeWhatsNew, entries.Length())
	defer tracker.Done()
	for i := 0; i < entries.Length(); i++ {
		tracker.Step()
		anchor, err := htmlutil.FindTag(entries.Eq(i), htmlutil.Q("a"))
		if err != nil {
			c.tel.ReportBroken(report_client_whats_new, err)
			return nil, scrapeerr.Abort(ModeWhatsNew, err)
		}
		link, err := htmlutil.ResolveHref(indexUrl, anchor.AttrOr("href", ""))
		if err != nil {
			c.tel.ReportBroken(report_client_whats_new, err)
			continue
		}

		article := c.http.Fetch(ctx, link)
		if article == nil {
			continue
		}
		page, err := htmlutil.Parse(article.Body)
		if err != nil {
			return nil, scrapeerr.Abort(ModeWhatsNew, fmt.Errorf("parse %s: %w", link, err))
		}

		h1, err := htmlutil.FindTag(page.Selection, htmlutil.Q("h1"))
		if err != nil {
			c.tel.ReportBroken(report_client_whats_new, err, link)
			return nil, scrapeerr.Abort(ModeWhatsNew, fmt.Errorf("%s: %w", link, err))
		}
		dl, err := htmlutil.FindTag(page.Selection, htmlutil.Q("dl"))
		if err != nil {
			c.tel.ReportBroken(report_client_whats_new, err, link)
			return nil, scrapeerr.Abort(ModeWhatsNew, fmt.Errorf("%s: %w", link, err))
		}

		result.Append(
			link,
			strings.TrimSpace(h1.Text()),
			strings.TrimSpace(htmlutil.CollapseLineBreaks(dl.Text())),
		)
	}
	return result, nil
}
