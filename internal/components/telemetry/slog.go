package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// SlogAPI implements API using the log/slog package.
type SlogAPI struct {
	logger *slog.Logger
}

// NewSlogAPI creates a SlogAPI writing to the given logger, if logger is nil
// slog.Default() is used at the time of each report.
func NewSlogAPI(logger *slog.Logger) SlogAPI {
	return SlogAPI{logger: logger}
}

func (s SlogAPI) get() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

func (SlogAPI) formatParams(out *[]any, params []any) {
	for i, p := range params {
		*out = append(
			*out,
			fmt.Sprintf("params.%d", i),
			p,
		)
	}
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	s.get().Error("broken component", remainingPairs...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	s.get().Warn("warning", remainingPairs...)
}

func (s SlogAPI) ReportInfo(message string, params ...any) {
	remainingPairs := []any{}
	s.formatParams(&remainingPairs, params)
	s.get().Info(message, remainingPairs...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	remainingPairs := []any{}
	s.formatParams(&remainingPairs, params)
	s.get().Debug(message, remainingPairs...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.get().Info("count", "id", id, "n", count)
}

// LogOptions configures the process-wide slog handler.
type LogOptions struct {
	Verbose bool
	// File is an optional path that log lines are mirrored to, its parent
	// directory is created if it does not exist.
	File string
}

// InitSlog installs a charmbracelet/log handler as the slog default. The
// returned closer releases the log file, if any.
func InitSlog(stderr io.Writer, opts LogOptions) (io.Closer, error) {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	out := stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		err := os.MkdirAll(filepath.Dir(opts.File), 0755)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		out = io.MultiWriter(stderr, f)
		closer = f
	}

	handler := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           level,
	})
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
