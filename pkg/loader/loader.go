// Package loader turns collected file paths into record collections.
//
// The reader for each file is chosen by extension: .csv, .json, .jsonl
// (or .ndjson) and .parquet are recognized, with compression extensions
// (.gz, .zst, .lz4, .snappy, .s2) stripped first for the row-oriented
// formats. Field order is preserved from the input: CSV header order,
// JSON object key order, Parquet schema order.
//
// Loading is best-effort per file, mirroring collection: a file that
// cannot be opened or parsed is skipped with a warning instead of failing
// the run. CSV cells are loaded as strings; JSON numbers load as float64.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/corral-io/corral/pkg/compression"
	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/logger"
	"github.com/corral-io/corral/pkg/models"
)

// Load reads records from every path, in the order given. Files that fail
// to load or have an unrecognized extension are skipped with a warning.
func Load(paths []string) []*models.Record {
	var records []*models.Record

	for _, path := range paths {
		loaded, err := LoadFile(path)
		if err != nil {
			logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			continue
		}
		records = append(records, loaded...)
		logger.Debug("file loaded", zap.String("path", path), zap.Int("records", len(loaded)))
	}
	return records
}

// LoadFile reads all records from a single file, picking the reader by
// extension.
func LoadFile(path string) ([]*models.Record, error) {
	codec, rest := compression.ForPath(path)
	ext := strings.ToLower(filepath.Ext(rest))

	if ext == ".parquet" {
		if codec != compression.None {
			return nil, errors.New(errors.ErrorTypeFile, "parquet files must not be externally compressed")
		}
		return loadParquet(path)
	}

	file, err := os.Open(path) //nolint:gosec // G304: paths come from configured source roots
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file")
	}
	defer file.Close()

	reader, err := codec.NewReader(file)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compressed file")
	}
	defer reader.Close()

	switch ext {
	case ".csv":
		return loadCSV(reader)
	case ".jsonl", ".ndjson":
		return loadJSONLines(reader)
	case ".json":
		return loadJSON(reader)
	default:
		return nil, errors.Newf(errors.ErrorTypeFile, "unrecognized file extension %q", ext)
	}
}
