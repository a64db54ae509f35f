package main

import (
	"fmt"
	"net/http"
	"os"

	"filing_extract/pkg/api/extract"
	"filing_extract/pkg/config"
	"filing_extract/pkg/core/shares"
	"filing_extract/pkg/logger"
	"filing_extract/pkg/metrics"
)

func main() {
	cfg, err := config.Load(os.Getenv("EXTRACT_CONFIG"))
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	log := logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	m := metrics.New(nil)
	sharesExtractor := &shares.Extractor{MaxHTML: cfg.MaxHTMLToParse, MaxText: cfg.MaxTextToClean}
	extractHandler := extract.NewHandler(cfg.Forms, sharesExtractor, m)

	http.HandleFunc("/api/extract", extractHandler.HandleExtract)
	http.HandleFunc("/health", extract.HandleHealth)
	http.Handle("/metrics", metrics.Handler())

	log.Info().Str("addr", cfg.ListenAddr).Strs("forms", cfg.Forms).Msg("API server starting")
	fmt.Println("  - POST /api/extract  (raw submission body; ?format=json|markdown|html)")
	fmt.Println("  - GET  /health")
	fmt.Println("  - GET  /metrics")

	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Error().Err(err).Msg("server failed to start")
		os.Exit(1)
	}
}
