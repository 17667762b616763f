// Package pipeline orchestrates one batch run: collect input files, load
// them into records, clean the collection, export the result.
//
// The phases run sequentially in a single goroutine; the in-memory record
// collection is the only state passed between them. A run either completes
// or fails outright — there are no retries and no partial re-runs.
package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/corral-io/corral/pkg/cleaner"
	"github.com/corral-io/corral/pkg/collector"
	"github.com/corral-io/corral/pkg/config"
	"github.com/corral-io/corral/pkg/exporter"
	"github.com/corral-io/corral/pkg/loader"
)

// Options controls per-run behavior beyond the resolved configuration.
type Options struct {
	// LogUsage appends a usage entry to the output directory after a
	// successful run.
	LogUsage bool
}

// Result summarizes a completed run.
type Result struct {
	FilesCollected  int
	RecordsLoaded   int
	RecordsExported int
	OutputPath      string
	Duration        time.Duration
}

// Run executes the full pipeline against a resolved configuration.
func Run(cfg *config.AppConfig, opts Options, log *zap.Logger) (*Result, error) {
	start := time.Now()

	// Reject a bad export format before any work happens.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	paths := collector.Collect(cfg.Sources)
	log.Info("files collected",
		zap.Int("count", len(paths)),
		zap.Int("sources", len(cfg.Sources)))

	records := loader.Load(paths)
	log.Info("records loaded", zap.Int("count", len(records)))

	cleaned := cleaner.Clean(records, cfg.Cleaning)
	log.Info("records cleaned",
		zap.Int("in", len(records)),
		zap.Int("out", len(cleaned)),
		zap.Int("removed", len(records)-len(cleaned)))

	outPath, err := exporter.Export(cleaned, cfg.Export)
	if err != nil {
		return nil, err
	}

	result := &Result{
		FilesCollected:  len(paths),
		RecordsLoaded:   len(records),
		RecordsExported: len(cleaned),
		OutputPath:      outPath,
		Duration:        time.Since(start),
	}

	if opts.LogUsage {
		if err := appendUsage(cfg.Export.OutputDir, result, cfg.Export.Format); err != nil {
			// Usage logging is advisory; the run already succeeded.
			log.Warn("failed to append usage log", zap.Error(err))
		}
	}

	log.Info("run complete",
		zap.Duration("duration", result.Duration),
		zap.String("output", outPath))
	return result, nil
}
