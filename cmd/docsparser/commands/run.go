package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"docsparser/internal/components/progress"
	"docsparser/internal/components/telemetry"
	"docsparser/internal/config"
	"docsparser/internal/httpcache"
	"docsparser/internal/parser"
	"docsparser/internal/report"
	"docsparser/internal/scrapers/peps"
	"docsparser/internal/scrapers/pydocs"

	"github.com/mattn/go-isatty"
)

const memoSize = 256

func run(ctx context.Context, mode string, flags rootFlags, stdout io.Writer) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	outputMode, err := report.ParseMode(flags.output)
	if err != nil {
		return err
	}

	logs, err := telemetry.InitSlog(os.Stderr, telemetry.LogOptions{
		Verbose: flags.verbose,
		File:    cfg.Resolve(cfg.LogFile),
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logs.Close()

	slog.Info("parser started")
	slog.Info("command line arguments",
		"mode", mode,
		"clear_cache", flags.clearCache,
		"output", string(outputMode),
		"config", flags.config,
	)
	tel := telemetry.NewSlogAPI(slog.Default())

	ttl, err := cfg.CacheTTLDuration()
	if err != nil {
		return err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}
	sqlite, err := httpcache.OpenDB(cfg.CachePath)
	if err != nil {
		return err
	}
	session := httpcache.NewSession(httpcache.Options{
		DB:        sqlite,
		TTL:       ttl,
		Timeout:   timeout,
		UserAgent: cfg.UserAgent,
		RateLimit: cfg.RateLimit,
		MemoSize:  memoSize,
		Tel:       tel,
	})
	defer session.Close()

	if flags.clearCache {
		err = session.ClearCache(ctx)
		if err != nil {
			return err
		}
	}
	_, err = session.Prune(ctx)
	if err != nil {
		return err
	}

	bars := newProgress(os.Stderr)
	pepOpts := []peps.Option{peps.WithProgress(bars)}
	if len(cfg.ExpectedStatus) > 0 {
		pepOpts = append(pepOpts, peps.WithStatusTable(peps.StatusTable(cfg.ExpectedStatus)))
	}
	p := parser.New(
		pydocs.NewClient(session, pydocs.ClientOptions{
			DocUrl:       cfg.DocURL,
			DownloadsDir: cfg.Resolve("downloads"),
			Progress:     bars,
		}, tel),
		peps.NewClient(session, cfg.PepURL, tel, pepOpts...),
		tel,
	)

	result, err := p.Run(ctx, mode)
	if err != nil {
		return err
	}
	if result != nil {
		out := report.NewOutput(outputMode, report.Options{
			Stdout:     stdout,
			ResultsDir: cfg.Resolve("results"),
			Tel:        tel,
		})
		err = out.Write(mode, result)
		if err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}

	slog.Info("parser finished")
	return nil
}

// newProgress draws progress bars on `stderr` when it is a terminal.
func newProgress(stderr *os.File) progress.API {
	fd := stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return progress.NewBarImpl(stderr)
	}
	return progress.NewNoopImpl()
}
