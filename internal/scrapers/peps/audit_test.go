package peps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"docsparser/internal/components/progress"
	"docsparser/internal/components/telemetry"
	"docsparser/internal/httpcache"
	"docsparser/internal/report"
	"docsparser/internal/scrapers/scrapeerr"
	"docsparser/pkg/htmlutil"

	_ "embed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/pep_index.html
var pepIndex string

const pepPageTemplate = `<!DOCTYPE html>
<html><body>
<section id="pep-page-section">
<h1 class="page-title">PEP %[1]s</h1>
<dl class="rfc2822 field-list simple">
<dt class="field-odd">Author<span class="colon">:</span></dt>
<dd class="field-odd">Someone &lt;someone&#32;&#97;t&#32;python.org&gt;</dd>
<dt class="field-even">Status<span class="colon">:</span></dt>
<dd class="field-even"><abbr title="Status">%[2]s</abbr></dd>
<dt class="field-odd">Type<span class="colon">:</span></dt>
<dd class="field-odd"><abbr title="Type">Standards Track</abbr></dd>
</dl>
</section>
</body></html>`

const pepPageWithoutStatus = `<!DOCTYPE html>
<html><body>
<dl class="rfc2822 field-list simple">
<dt class="field-odd">Author<span class="colon">:</span></dt>
<dd class="field-odd">Someone</dd>
</dl>
</body></html>`

type pepSite struct {
	*httptest.Server
	index       string
	pages       map[string]string
	detailsHits atomic.Int64
}

func newPepSite(t *testing.T, index string, pages map[string]string) *pepSite {
	site := &pepSite{index: index, pages: pages}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			fmt.Fprint(w, site.index)
			return
		}
		site.detailsHits.Add(1)
		page, ok := site.pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	}))
	t.Cleanup(site.Close)
	return site
}

func defaultPages() map[string]string {
	return map[string]string{
		"/pep-0001/": fmt.Sprintf(pepPageTemplate, "1", "Final"),
		"/pep-0002/": fmt.Sprintf(pepPageTemplate, "2", "Active"),
		"/pep-0003/": fmt.Sprintf(pepPageTemplate, "3", "Final"),
		"/pep-0004/": fmt.Sprintf(pepPageTemplate, "4", "Rejected"),
		"/pep-0006/": pepPageWithoutStatus,
		"/pep-0007/": fmt.Sprintf(pepPageTemplate, "7", "Draft"),
	}
}

func newTestSession(t *testing.T, tel telemetry.API) *httpcache.Session {
	sqlite, err := httpcache.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	session := httpcache.NewSession(httpcache.Options{
		DB:      sqlite,
		TTL:     time.Hour,
		Timeout: 5 * time.Second,
		Tel:     tel,
	})
	t.Cleanup(func() { session.Close() })
	return session
}

func TestAudit(t *testing.T) {
	site := newPepSite(t, pepIndex, defaultPages())
	recorder := telemetry.NewRecorder()
	client := NewClient(newTestSession(t, recorder), site.URL+"/", recorder)

	result, err := client.Audit(context.Background())
	require.NoError(t, err)

	expected := report.Result{
		{"Статус", "Количество"},
		{"Final", 2},
		{"Active", 1},
		{"Rejected", 1},
		{"Draft", 1},
		{"Total", 7},
	}
	diff := cmp.Diff(expected, result)
	require.Empty(t, diff)

	unknown := recorder.Filter(telemetry.LevelWarning, report_client_audit_row)
	require.Len(t, unknown, 1)
	require.ErrorContains(t, unknown[0].Params[0].(error), `unknown status code "Z"`)

	mismatches := recorder.Filter(telemetry.LevelInfo, "status mismatch")
	require.Len(t, mismatches, 2)
	require.Equal(t, site.URL+"/pep-0003/", mismatches[0].Params[0])
	require.Equal(t, "index: []", mismatches[0].Params[2])
	require.Equal(t, site.URL+"/pep-0004/", mismatches[1].Params[0])
	require.Equal(t, "page: Rejected", mismatches[1].Params[1])
	require.Equal(t, "index: [Deferred]", mismatches[1].Params[2])

	broken := recorder.Filter(telemetry.LevelBroken, report_client_audit_row)
	require.Len(t, broken, 1)
	require.ErrorContains(t, broken[0].Params[0].(error), "pep-0006/ has no status")

	// the missing page is reported by the session
	require.Len(t, recorder.Filter(telemetry.LevelBroken, "session.fetch"), 1)

	totals := recorder.Filter(telemetry.LevelCount, report_client_audit_seen)
	require.Len(t, totals, 1)
	require.Equal(t, int64(7), totals[0].Count)
	skipped := recorder.Filter(telemetry.LevelCount, report_client_audit_skip)
	require.Equal(t, int64(2), skipped[0].Count)
}

func TestAuditReportsProgress(t *testing.T) {
	site := newPepSite(t, pepIndex, defaultPages())
	recorder := telemetry.NewRecorder()
	bars := progress.NewRecorder()
	client := NewClient(newTestSession(t, recorder), site.URL+"/", recorder, WithProgress(bars))

	_, err := client.Audit(context.Background())
	require.NoError(t, err)

	expected := []progress.Loop{{Description: Mode, Total: 7, Steps: 7, Done: true}}
	require.Empty(t, cmp.Diff(expected, bars.Loops()))
}

func TestAuditAbortStopsProgress(t *testing.T) {
	pages := defaultPages()
	pages["/pep-0002/"] = `<html><body><p>moved</p></body></html>`
	site := newPepSite(t, pepIndex, pages)
	recorder := telemetry.NewRecorder()
	bars := progress.NewRecorder()
	client := NewClient(newTestSession(t, recorder), site.URL+"/", recorder, WithProgress(bars))

	_, err := client.Audit(context.Background())
	require.True(t, scrapeerr.IsAbort(err))

	expected := []progress.Loop{{Description: Mode, Total: 7, Steps: 2, Done: true}}
	require.Empty(t, cmp.Diff(expected, bars.Loops()))
}

func TestAuditTotalIsAtLeastSumOfStatuses(t *testing.T) {
	site := newPepSite(t, pepIndex, defaultPages())
	recorder := telemetry.NewRecorder()
	client := NewClient(newTestSession(t, recorder), site.URL+"/", recorder)

	result, err := client.Audit(context.Background())
	require.NoError(t, err)

	body := result.Body()
	total := body[len(body)-1]
	require.Equal(t, "Total", total[0])

	sum := 0
	for _, row := range body[:len(body)-1] {
		sum += row[1].(int)
	}
	require.Equal(t, 5, sum)
	require.Less(t, sum, total[1].(int))

	// every row resolves once the missing pages exist
	pages := defaultPages()
	pages["/pep-0005/"] = fmt.Sprintf(pepPageTemplate, "5", "Final")
	pages["/pep-0006/"] = fmt.Sprintf(pepPageTemplate, "6", "Withdrawn")
	complete := newPepSite(t, pepIndex, pages)
	client = NewClient(newTestSession(t, recorder), complete.URL+"/", recorder)

	result, err = client.Audit(context.Background())
	require.NoError(t, err)
	body = result.Body()
	sum = 0
	for _, row := range body[:len(body)-1] {
		sum += row[1].(int)
	}
	require.Equal(t, body[len(body)-1][1], sum)
}

func TestAuditWithStatusTable(t *testing.T) {
	site := newPepSite(t, pepIndex, defaultPages())
	recorder := telemetry.NewRecorder()
	statuses := DefaultStatusTable()
	statuses["Z"] = []string{"Final"}
	statuses["D"] = []string{"Deferred", "Rejected"}

	client := NewClient(newTestSession(t, recorder), site.URL+"/", recorder, WithStatusTable(statuses))
	_, err := client.Audit(context.Background())
	require.NoError(t, err)

	require.Empty(t, recorder.Filter(telemetry.LevelWarning, report_client_audit_row))
	require.Empty(t, recorder.Filter(telemetry.LevelInfo, "status mismatch"))
}

func TestAuditWithoutTbodyAborts(t *testing.T) {
	index := `<html><body><section id="numerical-index"><h2>Numerical Index</h2>
<p>The index is being regenerated.</p></section></body></html>`
	site := newPepSite(t, index, defaultPages())
	recorder := telemetry.NewRecorder()
	client := NewClient(newTestSession(t, recorder), site.URL+"/", recorder)

	result, err := client.Audit(context.Background())
	require.Nil(t, result)
	require.True(t, scrapeerr.IsAbort(err))

	var notFound *htmlutil.TagNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "tbody", notFound.Query.Tag)

	require.Equal(t, int64(0), site.detailsHits.Load())
	require.Empty(t, recorder.Filter(telemetry.LevelCount, report_client_audit_seen))
}

func TestAuditTableWithoutTbodyAborts(t *testing.T) {
	index := `<html><body><section id="numerical-index"><table>
<tr><td><abbr>SF</abbr></td><td><a href="pep-0001/">1</a></td></tr>
<tr><td><abbr>IA</abbr></td><td><a href="pep-0002/">2</a></td></tr>
</table></section></body></html>`
	site := newPepSite(t, index, defaultPages())
	recorder := telemetry.NewRecorder()
	client := NewClient(newTestSession(t, recorder), site.URL+"/", recorder)

	result, err := client.Audit(context.Background())
	require.Nil(t, result)
	require.True(t, scrapeerr.IsAbort(err))
	require.ErrorContains(t, err, `tag "tbody" with attrs {} not found`)

	var notFound *htmlutil.TagNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "tbody", notFound.Query.Tag)

	require.Equal(t, int64(0), site.detailsHits.Load())
	require.Len(t, recorder.Filter(telemetry.LevelBroken, report_client_audit), 1)
}

func TestAuditDetailPageWithoutListAborts(t *testing.T) {
	pages := defaultPages()
	pages["/pep-0002/"] = `<html><body><p>moved</p></body></html>`
	site := newPepSite(t, pepIndex, pages)
	recorder := telemetry.NewRecorder()
	client := NewClient(newTestSession(t, recorder), site.URL+"/", recorder)

	result, err := client.Audit(context.Background())
	require.Nil(t, result)
	require.True(t, scrapeerr.IsAbort(err))
	require.True(t, strings.Contains(err.Error(), "pep-0002/"))
}

func TestAuditIndexUnavailable(t *testing.T) {
	site := newPepSite(t, pepIndex, defaultPages())
	recorder := telemetry.NewRecorder()
	client := NewClient(newTestSession(t, recorder), site.URL+"/missing-index/", recorder)

	result, err := client.Audit(context.Background())
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		cell   string
		expect string
	}{
		{cell: "SF", expect: "F"},
		{cell: " PA\n", expect: "A"},
		{cell: "I", expect: ""},
		{cell: "", expect: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expect, statusCode(test.cell))
	}
}

func TestTally(t *testing.T) {
	tally := NewTally()
	for _, s := range []string{"Final", "Active", "Final", "Draft", "Final"} {
		tally.Add(s)
	}
	require.Equal(t, []string{"Final", "Active", "Draft"}, tally.Keys())
	require.Equal(t, 3, tally.Count("Final"))
	require.Equal(t, 0, tally.Count("Rejected"))
	require.Equal(t, 5, tally.Sum())
}

func TestStatusTable(t *testing.T) {
	table := DefaultStatusTable()
	require.True(t, table.Accepts("A", "Accepted"))
	require.True(t, table.Accepts("", "Draft"))
	require.False(t, table.Accepts("F", "Active"))
	require.False(t, table.Accepts("Z", "Final"))

	// copies do not leak into the default
	table["F"][0] = "Changed"
	require.True(t, DefaultStatusTable().Accepts("F", "Final"))
}
