package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corral-io/corral/internal/pipeline"
	"github.com/corral-io/corral/pkg/config"
	"github.com/corral-io/corral/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "corral",
		Short: "Corral - dataset collection and cleaning pipeline",
		Long: `Corral collects structured data files (CSV/JSON/JSONL) from configured
source directories, applies record-level cleaning transforms, and exports the
cleaned collection to CSV, JSONL or a columnar (Parquet) file.`,
		Run: func(cmd *cobra.Command, args []string) {
			// Bare invocation prints a short banner and a usage hint.
			fmt.Println("Corral - dataset collection and cleaning pipeline")
			fmt.Println("Run 'corral run --help' for usage information")
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Corral v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var configPath, inputDir, outputDir, logLevel string
	var logUsage bool

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the collection and cleaning pipeline",
		Long: `Run one batch: discover input files, clean the loaded records, export the
result. Without --config the pipeline uses its built-in defaults.

Example:
  corral run --config corral.yaml --output ./data/processed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(configPath, inputDir, outputDir, logLevel, logUsage)
		},
	}

	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file (optional)")
	runCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Override: collect from this directory instead of the configured sources")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Override: write the export into this directory")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&logUsage, "log-usage", false, "Append a usage entry to the output directory after the run")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, inputDir, outputDir, logLevel string, logUsage bool) error {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	if inputDir != "" {
		cfg.Sources = []config.SourceSpec{{
			Path:    inputDir,
			Include: config.DefaultIncludePatterns(),
		}}
	}
	if outputDir != "" {
		cfg.Export.OutputDir = outputDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := logger.Init(logger.Config{
		Level:    cfg.Logging.Level,
		Encoding: cfg.Logging.Encoding,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	log := logger.With(
		zap.String("component", "corral-cli"),
		zap.String("format", cfg.Export.Format))
	if configPath != "" {
		log = log.With(zap.String("config", configPath))
	}

	result, err := pipeline.Run(cfg, pipeline.Options{LogUsage: logUsage}, log)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d records (%d files collected) to %s in %s\n",
		result.RecordsExported, result.FilesCollected, result.OutputPath,
		result.Duration.Round(time.Millisecond))
	return nil
}
