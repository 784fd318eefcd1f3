package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"docsparser/internal/components/chrono"
	"docsparser/internal/components/telemetry"
)

type Mode string

const (
	ModeDefault  Mode = ""
	ModePretty   Mode = "pretty"
	ModeFile     Mode = "file"
	ModeMarkdown Mode = "markdown"
)

// Modes are the values accepted by ParseMode, excluding the default.
var Modes = []Mode{ModePretty, ModeFile, ModeMarkdown}

func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeDefault, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown output %q, expected one of: %s", s, modeList())
}

func modeList() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Output renders the result of one parser mode.
type Output interface {
	Write(parserMode string, result Result) error
}

type Options struct {
	Stdout io.Writer
	// ResultsDir is where ModeFile writes csv files.
	ResultsDir string
	Time       chrono.API
	Tel        telemetry.API
}

// NewOutput returns the Output for the given mode.
func NewOutput(mode Mode, opts Options) Output {
	if opts.Time == nil {
		opts.Time = chrono.NewStandardImpl()
	}
	switch mode {
	case ModePretty:
		return prettyOutput{out: opts.Stdout}
	case ModeFile:
		return fileOutput{
			dir:  opts.ResultsDir,
			time: opts.Time,
			tel:  telemetry.NewScopedAPI("output", opts.Tel),
		}
	case ModeMarkdown:
		return markdownOutput{out: opts.Stdout}
	default:
		return defaultOutput{out: opts.Stdout}
	}
}

const fileTimeFormat = "2006-01-02_15-04-05"

func fileName(parserMode string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", parserMode, now.Format(fileTimeFormat))
}
