// Package config provides the configuration system for Corral.
//
// An AppConfig is built once per run by overlaying an optional YAML
// document onto an all-defaults structure, then validating the merged
// result. Absent keys keep their defaults and unknown keys are ignored,
// so old configuration documents keep working as the schema grows.
//
// The document has three sections:
//
//	sources:            # or a single "source" object
//	  - path: ./data/raw
//	    include: ["*.jsonl", "*.json", "*.csv"]
//	cleaning:
//	  drop_duplicates: true
//	  trim_whitespace: true
//	  normalize_unicode: true
//	  remove_empty: true
//	  lower_keys: false
//	export:
//	  format: columnar    # csv | jsonl | columnar (parquet accepted as alias)
//	  output_dir: ./data/processed
//	  filename: dataset
//
// ${VAR} references anywhere in the document are substituted from the
// environment before parsing.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corral-io/corral/pkg/errors"
)

// Default paths and include patterns for unconfigured runs.
const (
	DefaultRawDataPath  = "./data/raw"
	DefaultOutputDir    = "./data/processed"
	DefaultFilename     = "dataset"
	DefaultExportFormat = FormatColumnar
	DefaultLogLevel     = "info"
)

// Export format values recognized in the export.format field.
const (
	FormatCSV      = "csv"
	FormatJSONL    = "jsonl"
	FormatColumnar = "columnar"
	// FormatParquet is accepted as an alias for columnar.
	FormatParquet = "parquet"
)

// DefaultIncludePatterns returns the glob patterns applied to a source
// that does not configure its own.
func DefaultIncludePatterns() []string {
	return []string{"*.jsonl", "*.json", "*.csv"}
}

// SourceSpec identifies one root directory to collect files from.
// The path does not have to exist when the configuration is resolved;
// missing roots simply contribute zero files at collection time.
type SourceSpec struct {
	Path    string   `yaml:"path"`
	Include []string `yaml:"include"`
}

// CleaningOptions is the set of independent cleaning transform flags.
type CleaningOptions struct {
	DropDuplicates   bool `yaml:"drop_duplicates"`
	TrimWhitespace   bool `yaml:"trim_whitespace"`
	NormalizeUnicode bool `yaml:"normalize_unicode"`
	RemoveEmpty      bool `yaml:"remove_empty"`
	LowerKeys        bool `yaml:"lower_keys"`
}

// ExportSpec configures the output format and location.
type ExportSpec struct {
	Format      string `yaml:"format"`
	OutputDir   string `yaml:"output_dir"`
	Filename    string `yaml:"filename"`
	Compression string `yaml:"compression"`
}

// LoggingConfig configures the run's structured logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// AppConfig aggregates everything a run needs. It is constructed once by
// Resolve and treated as immutable afterward.
type AppConfig struct {
	Sources  []SourceSpec
	Cleaning CleaningOptions
	Export   ExportSpec
	Logging  LoggingConfig
}

// Default returns an AppConfig with every field at its documented default:
// one source at the default raw-data path, all cleaning flags on except
// lower_keys, and columnar export into the default processed directory.
func Default() *AppConfig {
	return &AppConfig{
		Sources: []SourceSpec{{
			Path:    DefaultRawDataPath,
			Include: DefaultIncludePatterns(),
		}},
		Cleaning: CleaningOptions{
			DropDuplicates:   true,
			TrimWhitespace:   true,
			NormalizeUnicode: true,
			RemoveEmpty:      true,
			LowerKeys:        false,
		},
		Export: ExportSpec{
			Format:    DefaultExportFormat,
			OutputDir: DefaultOutputDir,
			Filename:  DefaultFilename,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Encoding: "console",
		},
	}
}

// Resolve builds the run configuration. With an empty path it returns the
// defaults. Otherwise it reads the YAML document at path, substitutes
// ${VAR} environment references, overlays the document onto the defaults,
// and validates the merged result.
//
// A missing document is a not_found error and malformed YAML is a parse
// error; both are fatal before any processing starts.
func Resolve(path string) (*AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "config file not found: "+path)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file: "+path)
	}

	var doc document
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to parse config file: "+path)
	}

	doc.overlay(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the merged configuration. The export format is verified
// here so an unrecognized value fails the run before any file is touched.
func (c *AppConfig) Validate() error {
	switch c.Export.Format {
	case FormatCSV, FormatJSONL, FormatColumnar, FormatParquet:
	default:
		return errors.Newf(errors.ErrorTypeFormat, "unrecognized export format %q (expected csv, jsonl or columnar)", c.Export.Format)
	}
	if c.Export.Filename == "" {
		return errors.New(errors.ErrorTypeConfig, "export filename must not be empty")
	}
	if c.Export.OutputDir == "" {
		return errors.New(errors.ErrorTypeConfig, "export output_dir must not be empty")
	}
	return nil
}

// document mirrors the YAML shape with pointer fields so that absent and
// present-but-zero values can be told apart during the overlay.
type document struct {
	Sources  *sourceList  `yaml:"sources"`
	Source   *sourceList  `yaml:"source"`
	Cleaning *cleaningDoc `yaml:"cleaning"`
	Export   *exportDoc   `yaml:"export"`
	Logging  *loggingDoc  `yaml:"logging"`
}

type cleaningDoc struct {
	DropDuplicates   *bool `yaml:"drop_duplicates"`
	TrimWhitespace   *bool `yaml:"trim_whitespace"`
	NormalizeUnicode *bool `yaml:"normalize_unicode"`
	RemoveEmpty      *bool `yaml:"remove_empty"`
	LowerKeys        *bool `yaml:"lower_keys"`
}

type exportDoc struct {
	Format      *string `yaml:"format"`
	OutputDir   *string `yaml:"output_dir"`
	Filename    *string `yaml:"filename"`
	Compression *string `yaml:"compression"`
}

type loggingDoc struct {
	Level    *string `yaml:"level"`
	Encoding *string `yaml:"encoding"`
}

type sourceDoc struct {
	Path    *string   `yaml:"path"`
	Include *[]string `yaml:"include"`
}

// sourceList accepts either a single source mapping or a sequence of
// source mappings. Entries that are not mappings are ignored.
type sourceList []sourceDoc

func (s *sourceList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var single sourceDoc
		if err := node.Decode(&single); err != nil {
			return err
		}
		*s = sourceList{single}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				continue
			}
			var entry sourceDoc
			if err := item.Decode(&entry); err != nil {
				return err
			}
			*s = append(*s, entry)
		}
	}
	// Scalar and other kinds are malformed; leave the list empty so the
	// overlay falls back to the default source.
	return nil
}

func (d *document) overlay(cfg *AppConfig) {
	sources := d.Sources
	if sources == nil {
		sources = d.Source
	}
	if sources != nil && len(*sources) > 0 {
		cfg.Sources = cfg.Sources[:0]
		for _, src := range *sources {
			spec := SourceSpec{
				Path:    DefaultRawDataPath,
				Include: DefaultIncludePatterns(),
			}
			if src.Path != nil {
				spec.Path = *src.Path
			}
			if src.Include != nil {
				spec.Include = *src.Include
			}
			cfg.Sources = append(cfg.Sources, spec)
		}
	}

	if cl := d.Cleaning; cl != nil {
		setBool(&cfg.Cleaning.DropDuplicates, cl.DropDuplicates)
		setBool(&cfg.Cleaning.TrimWhitespace, cl.TrimWhitespace)
		setBool(&cfg.Cleaning.NormalizeUnicode, cl.NormalizeUnicode)
		setBool(&cfg.Cleaning.RemoveEmpty, cl.RemoveEmpty)
		setBool(&cfg.Cleaning.LowerKeys, cl.LowerKeys)
	}

	if ex := d.Export; ex != nil {
		if ex.Format != nil {
			cfg.Export.Format = strings.ToLower(strings.TrimSpace(*ex.Format))
		}
		setString(&cfg.Export.OutputDir, ex.OutputDir)
		setString(&cfg.Export.Filename, ex.Filename)
		if ex.Compression != nil {
			cfg.Export.Compression = strings.ToLower(strings.TrimSpace(*ex.Compression))
		}
	}

	if lg := d.Logging; lg != nil {
		setString(&cfg.Logging.Level, lg.Level)
		setString(&cfg.Logging.Encoding, lg.Encoding)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
