package httpcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"docsparser/internal/components/assert"
	"docsparser/internal/components/chrono"
	"docsparser/internal/components/telemetry"
	"docsparser/internal/httpcache/db"

	"github.com/dubonzi/otelresty"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("docsparser/httpcache")

const (
	report_session_fetch    = "session.fetch"
	report_session_cache    = "session.cache"
	report_session_download = "session.download"
)

// OpenDB opens (creating if needed) the sqlite database at `path` and
// applies the cache schema. `:memory:` is accepted.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return nil, err
		}
	}
	sqlite, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a different database
	sqlite.SetMaxOpenConns(1)

	_, err = sqlite.Exec(db.Schema)
	if err != nil {
		sqlite.Close()
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}
	return sqlite, nil
}

type Options struct {
	DB *sql.DB
	// TTL is how long a cached response stays valid, <= 0 means forever.
	TTL       time.Duration
	Timeout   time.Duration
	UserAgent string
	// RateLimit is the max requests per second sent to the network, 0 is unlimited.
	// Responses served from the cache are not rate limited.
	RateLimit float64
	// MemoSize is how many responses are also kept in memory, 0 disables it.
	// Memoized entries expire on the wall clock after TTL, not on Time.
	MemoSize int
	Time     chrono.API
	Tel      telemetry.API
}

// Session is an http client whose successful GET responses are cached in
// sqlite.
type Session struct {
	http *resty.Client
	db   *sql.DB
	qry  *db.Queries
	memo *expirable.LRU[string, *Response]
	ttl  time.Duration
	time chrono.API
	tel  telemetry.API
}

func NewSession(opts Options) *Session {
	assert.NotNil(opts.DB)
	assert.NotNil(opts.Tel)
	if opts.Time == nil {
		opts.Time = chrono.NewStandardImpl()
	}

	tel := telemetry.NewScopedAPI("http_cache", opts.Tel)

	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.RateLimit > 0 {
		burst := int(math.Max(1, math.Ceil(opts.RateLimit)))
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}
	telemetry.InstrumentResty(client, tel)
	otelresty.TraceClient(
		client,
		otelresty.WithTracerName("docsparser-http"),
	)

	var memo *expirable.LRU[string, *Response]
	if opts.MemoSize > 0 {
		memo = expirable.NewLRU[string, *Response](opts.MemoSize, nil, max(opts.TTL, 0))
	}

	return &Session{
		http: client,
		db:   opts.DB,
		qry:  db.New(opts.DB),
		memo: memo,
		ttl:  opts.TTL,
		time: opts.Time,
		tel:  tel,
	}
}

func (s *Session) remember(cacheKey string, res *Response) {
	if s.memo == nil {
		return
	}
	cached := *res
	cached.FromCache = true
	s.memo.Add(cacheKey, &cached)
}

// Close closes the underlying database.
func (s *Session) Close() error {
	return s.db.Close()
}

// Get returns the response for `link`, from the cache if a fresh entry exists,
// otherwise from the network. Only 2xx responses are cached, others are
// returned as a *StatusError.
func (s *Session) Get(ctx context.Context, link string) (*Response, error) {
	ctx, span := tracer.Start(ctx, "session:Get")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	cacheKey, err := key(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return nil, fmt.Errorf("invalid url %q: %w", link, err)
	}

	if s.memo != nil {
		memoized, ok := s.memo.Get(cacheKey)
		if ok {
			span.SetAttributes(attribute.Bool("from_cache", true))
			return memoized, nil
		}
	}

	cached, err := s.lookup(ctx, cacheKey)
	if err != nil {
		// a broken cache should not stop the crawl, fall through to the network
		s.tel.ReportBroken(report_session_cache, err, link)
	}
	if cached != nil {
		span.SetAttributes(attribute.Bool("from_cache", true))
		s.tel.ReportDebug("cache hit", link)
		s.remember(cacheKey, cached)
		return cached, nil
	}

	res, err := s.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("GET %s: %w", link, err)
	}
	if !res.IsSuccess() {
		err := &StatusError{URL: link, StatusCode: res.StatusCode(), Status: res.Status()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	out := &Response{
		URL:         link,
		StatusCode:  res.StatusCode(),
		ContentType: res.Header().Get("content-type"),
		Body:        res.Body(),
	}
	err = s.store(ctx, cacheKey, out)
	if err != nil {
		s.tel.ReportBroken(report_session_cache, err, link)
	}
	s.remember(cacheKey, out)
	return out, nil
}

// Fetch is Get that reports failures instead of returning them, a nil
// response means the page is unavailable and the caller should skip it.
func (s *Session) Fetch(ctx context.Context, link string) *Response {
	res, err := s.Get(ctx, link)
	if err != nil {
		s.tel.ReportBroken(report_session_fetch, fmt.Errorf("failed to load page %s: %w", link, err))
		return nil
	}
	return res
}

// Download performs a GET that bypasses the cache entirely.
func (s *Session) Download(ctx context.Context, link string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "session:Download")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	res, err := s.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		s.tel.ReportBroken(report_session_download, err, link)
		return nil, fmt.Errorf("GET %s: %w", link, err)
	}
	if !res.IsSuccess() {
		err := &StatusError{URL: link, StatusCode: res.StatusCode(), Status: res.Status()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		s.tel.ReportBroken(report_session_download, err)
		return nil, err
	}
	return res.Body(), nil
}

// ClearCache removes every cached response.
func (s *Session) ClearCache(ctx context.Context) error {
	n, err := s.qry.DeleteAllResponses(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if s.memo != nil {
		s.memo.Purge()
	}
	s.tel.ReportInfo("cache cleared", n)
	return nil
}

// Prune removes expired responses, returning how many were removed.
func (s *Session) Prune(ctx context.Context) (int64, error) {
	n, err := s.qry.DeleteExpiredResponses(ctx, s.time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	s.tel.ReportDebug("pruned expired responses", n)
	return n, nil
}

func (s *Session) lookup(ctx context.Context, cacheKey string) (*Response, error) {
	row, err := s.qry.GetResponse(ctx, cacheKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.time.Now().Unix() >= row.Expiresat {
		s.tel.ReportDebug("delete expired cache key", cacheKey)
		err = s.qry.DeleteResponse(ctx, cacheKey)
		if err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &Response{
		URL:         row.Url,
		StatusCode:  int(row.Status),
		ContentType: row.Contenttype,
		Body:        row.Body,
		FromCache:   true,
	}, nil
}

func (s *Session) store(ctx context.Context, cacheKey string, res *Response) error {
	now := s.time.Now().Unix()
	expiresAt := int64(math.MaxInt64)
	if s.ttl > 0 {
		expiresAt = now + int64(s.ttl/time.Second)
	}

	body := res.Body
	if body == nil {
		body = []byte{}
	}

	return s.qry.PutResponse(ctx, db.PutResponseParams{
		Key:         cacheKey,
		Url:         res.URL,
		Status:      int64(res.StatusCode),
		Contenttype: res.ContentType,
		Body:        body,
		Createdat:   now,
		Expiresat:   expiresAt,
	})
}
