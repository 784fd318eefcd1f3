package peps

import (
	"context"

	"docsparser/internal/components/assert"
	"docsparser/internal/components/progress"
	"docsparser/internal/components/telemetry"
	"docsparser/internal/httpcache"
)

// Fetcher returns the page at a url or nil if it is unavailable, reporting
// the failure itself.
type Fetcher interface {
	Fetch(ctx context.Context, link string) *httpcache.Response
}

type Client struct {
	http     Fetcher
	indexUrl string
	statuses StatusTable
	progress progress.API
	tel      telemetry.API
}

type Option func(c *Client)

// WithStatusTable replaces the status table used to validate pep pages.
func WithStatusTable(statuses StatusTable) Option {
	return func(c *Client) {
		c.statuses = statuses.Clone()
	}
}

// WithProgress reports the audit loop through `p`.
func WithProgress(p progress.API) Option {
	return func(c *Client) {
		c.progress = p
	}
}

// NewClient creates a client for the pep index found at `indexUrl`.
func NewClient(http Fetcher, indexUrl string, tel telemetry.API, opts ...Option) *Client {
	assert.NotNil(http)
	assert.NotNil(tel)
	assert.NotEmptyStr(indexUrl)

	c := &Client{
		http:     http,
		indexUrl: indexUrl,
		statuses: DefaultStatusTable(),
		progress: progress.NewNoopImpl(),
		tel:      telemetry.NewScopedAPI("pep_scraper", tel),
	}
	for _, opt := range opts {
		opt(c)
	}
	assert.NotNil(c.progress)
	return c
}
