// Package corral is a batch pipeline that collects raw dataset files,
// cleans them at the record level, and exports a single consolidated
// output file.
//
// A run has four phases:
//
//  1. Collect: walk each configured source root and gather every file
//     matching the source's include patterns.
//  2. Load: parse each collected file (CSV, JSON, JSONL, Parquet, with
//     optional stream compression) into ordered records. Files that
//     fail to parse are logged and skipped.
//  3. Clean: apply the enabled transforms in a fixed order — lowercase
//     keys, trim whitespace, Unicode NFC normalization, empty-record
//     removal, duplicate removal.
//  4. Export: write the cleaned collection atomically as csv, jsonl or
//     columnar (Parquet) output.
//
// # Quick Start
//
// Run with an explicit configuration:
//
//	corral run --config corral.yaml
//
// Or point it at a directory and let everything else default:
//
//	corral run --input ./data/raw --output ./data/processed
//
// # Key Packages
//
//	pkg/config      - YAML configuration with defaults and env substitution
//	pkg/collector   - source-root file discovery
//	pkg/loader      - format readers producing ordered records
//	pkg/cleaner     - record-level cleaning transforms
//	pkg/exporter    - atomic format writers
//	pkg/models      - the ordered Record type and schema inference
//	internal/pipeline - run orchestration
//
// # Configuration
//
// Configuration is a single YAML document; every key is optional and
// absent keys keep their defaults. ${VAR_NAME} references are
// substituted from the environment before parsing. See pkg/config for
// the full document shape.
package corral
