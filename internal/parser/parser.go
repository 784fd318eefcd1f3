package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docsparser/internal/components/assert"
	"docsparser/internal/components/telemetry"
	"docsparser/internal/report"
	"docsparser/internal/scrapers/peps"
	"docsparser/internal/scrapers/pydocs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("docsparser/parser")

const report_parser_run = "parser.run"

var ErrUnknownMode = errors.New("unknown mode")

// DocsScraper scrapes the python documentation.
type DocsScraper interface {
	LatestVersions(ctx context.Context) (report.Result, error)
	WhatsNew(ctx context.Context) (report.Result, error)
	Download(ctx context.Context) (string, error)
}

// PepScraper audits the PEP index.
type PepScraper interface {
	Audit(ctx context.Context) (report.Result, error)
}

// Extractor runs one mode. A nil result with a nil error means there is
// nothing to report and the reason has already been logged.
type Extractor func(ctx context.Context) (report.Result, error)

// ModeNames lists every mode in the order it is shown to the user.
var ModeNames = []string{
	pydocs.ModeWhatsNew,
	pydocs.ModeLatestVersions,
	pydocs.ModeDownload,
	peps.Mode,
}

type mode struct {
	name string
	run  Extractor
}

// Parser dispatches a mode name to its extractor.
type Parser struct {
	modes []mode
	tel   telemetry.API
}

func New(docs DocsScraper, pep PepScraper, tel telemetry.API) *Parser {
	assert.NotNil(docs)
	assert.NotNil(pep)
	assert.NotNil(tel)

	extractors := map[string]Extractor{
		pydocs.ModeWhatsNew:       docs.WhatsNew,
		pydocs.ModeLatestVersions: docs.LatestVersions,
		pydocs.ModeDownload: func(ctx context.Context) (report.Result, error) {
			_, err := docs.Download(ctx)
			return nil, err
		},
		peps.Mode: pep.Audit,
	}
	modes := make([]mode, len(ModeNames))
	for i, name := range ModeNames {
		run, ok := extractors[name]
		if !ok {
			panic(fmt.Sprintf("mode %q has no extractor", name))
		}
		modes[i] = mode{name: name, run: run}
	}

	return &Parser{
		modes: modes,
		tel:   telemetry.NewScopedAPI("parser", tel),
	}
}

// Modes returns the available mode names in the order they are listed to
// the user.
func (p *Parser) Modes() []string {
	names := make([]string, len(p.modes))
	for i, m := range p.modes {
		names[i] = m.name
	}
	return names
}

func (p *Parser) lookup(name string) (Extractor, error) {
	for _, m := range p.modes {
		if m.name == name {
			return m.run, nil
		}
	}
	return nil, fmt.Errorf("%w %q, expected one of: %s", ErrUnknownMode, name, strings.Join(p.Modes(), ", "))
}

// Run executes the extractor registered under `name`.
func (p *Parser) Run(ctx context.Context, name string) (report.Result, error) {
	run, err := p.lookup(name)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "parser:Run")
	defer span.End()
	span.SetAttributes(attribute.String("mode", name))

	result, err := run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extractor failed")
		p.tel.ReportBroken(report_parser_run, err, name)
		return nil, err
	}
	if result == nil {
		p.tel.ReportDebug("nothing to report", name)
		return nil, nil
	}
	span.SetAttributes(attribute.Int("rows", len(result.Body())))
	return result, nil
}
