package pydocs

import (
	"context"

	"docsparser/internal/components/assert"
	"docsparser/internal/components/progress"
	"docsparser/internal/components/telemetry"
	"docsparser/internal/httpcache"
)

// Fetcher is the http session the client scrapes through.
type Fetcher interface {
	// Fetch returns the page at a url or nil if it is unavailable, reporting
	// the failure itself.
	Fetch(ctx context.Context, link string) *httpcache.Response
	// Download fetches a binary payload without going through the cache.
	Download(ctx context.Context, link string) ([]byte, error)
}

// Client scrapes the python documentation rooted at `docUrl`
// (ex. https://docs.python.org/3/).
type Client struct {
	http         Fetcher
	docUrl       string
	downloadsDir string
	progress     progress.API
	tel          telemetry.API
}

type ClientOptions struct {
	DocUrl string
	// DownloadsDir is the directory archives are saved to.
	DownloadsDir string
	// Progress reports the article loop of WhatsNew, nothing is shown when nil.
	Progress progress.API
}

func NewClient(http Fetcher, opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(http)
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.DocUrl)
	assert.NotEmptyStr(opts.DownloadsDir)

	p := opts.Progress
	if p == nil {
		p = progress.NewNoopImpl()
	}
	return &Client{
		http:         http,
		docUrl:       opts.DocUrl,
		downloadsDir: opts.DownloadsDir,
		progress:     p,
		tel:          telemetry.NewScopedAPI("docs_scraper", tel),
	}
}
