package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"filing_extract/pkg/config"
	"filing_extract/pkg/core/edgar"
	"filing_extract/pkg/core/pipeline"
	"filing_extract/pkg/core/shares"
	"filing_extract/pkg/core/statements"
	"filing_extract/pkg/core/store"
	"filing_extract/pkg/logger"
	"filing_extract/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	formDir := flag.String("form-dir", "", "directory of downloaded submissions")
	forms := flag.String("form", "", "comma separated form types, e.g. 10-Q,10-K")
	mode := flag.String("mode", "", "load or shares")
	maxFiles := flag.Int("max", -1, "maximum number of files to process (-1 for all)")
	concurrent := flag.Int("concurrent", 0, "number of filings processed at once")
	logLevel := flag.String("log-level", "", "none, error, information or debug")
	outputDir := flag.String("output-dir", "", "write JSON records here when no database is configured")
	flag.Parse()

	cfg, err := config.Read(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	var maxSet *int
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "max" {
			maxSet = maxFiles
		}
	})
	applyFlags(&cfg, *formDir, *forms, *mode, maxSet, *concurrent, *logLevel, *outputDir)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.FormDir == "" {
		fmt.Fprintln(os.Stderr, "Error: form-dir is required")
		os.Exit(1)
	}

	log := logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(nil)
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	sink, err := openSink(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("can't open output")
		os.Exit(1)
	}
	defer store.Close()

	source := edgar.NewFilingSource(cfg.FormDir)
	paths, err := source.Walk(cfg.Forms, cfg.MaxFiles)
	if err != nil {
		log.Error().Err(err).Msg("can't list filings")
		os.Exit(1)
	}

	sharesExtractor := &shares.Extractor{MaxHTML: cfg.MaxHTMLToParse, MaxText: cfg.MaxTextToClean}
	orch := pipeline.NewOrchestrator(
		source,
		statements.NewExtractor(cfg.Forms, sharesExtractor),
		sharesExtractor,
		sink,
		pipeline.Options{
			Forms:       cfg.Forms,
			Concurrency: cfg.Concurrent,
			RatePerSec:  cfg.RatePerSec,
			Logger:      log,
			Metrics:     m,
		},
	)

	summary, err := orch.Run(ctx, cfg.Mode, paths)
	if summary != nil {
		fmt.Printf("\n=== Run %s ===\n", summary.RunID)
		fmt.Printf("Processed: %d  Loaded: %d  Skipped: %d  Failed: %d  Shares updated: %d  (%v)\n",
			summary.Processed, summary.Loaded, summary.Skipped, summary.Failed, summary.SharesUpdated, summary.Duration)
	}
	if err != nil {
		log.Error().Err(err).Msg("run interrupted")
		os.Exit(1)
	}
}

// applyFlags overrides cfg with the flags given on the command line.
// maxFiles is nil when -max was not passed, so -max 0 is honored.
func applyFlags(cfg *config.Config, formDir, forms, mode string, maxFiles *int, concurrent int, logLevel, outputDir string) {
	if formDir != "" {
		cfg.FormDir = formDir
	}
	if forms != "" {
		cfg.Forms = config.SplitList(forms)
	}
	if mode != "" {
		cfg.Mode = mode
	}
	if maxFiles != nil {
		cfg.MaxFiles = *maxFiles
	}
	if concurrent > 0 {
		cfg.Concurrent = concurrent
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
}

// openSink connects to Postgres when a database is configured and falls
// back to JSON files otherwise.
func openSink(ctx context.Context, cfg config.Config, log *logger.Logger) (pipeline.Sink, error) {
	if cfg.DatabaseURL == "" {
		log.Info().Str("dir", cfg.OutputDir).Msg("no database configured, writing JSON records")
		return store.NewFileSink(cfg.OutputDir)
	}
	if err := store.InitDB(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}
	repo := store.NewFilingsRepo(store.GetPool(), cfg.Schema, log)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
