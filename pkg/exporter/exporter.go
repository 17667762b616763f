// Package exporter serializes a cleaned record collection into its output
// file.
//
// Three formats are supported: csv (comma-delimited with header), jsonl
// (one JSON object per line) and columnar (Parquet; "parquet" is accepted
// as an alias). The row-oriented formats can additionally be compressed
// with any codec from the compression package.
//
// Writes are atomic: the exporter writes into a hidden temp file in the
// output directory and renames it into place only after a successful
// flush, so a failed run never leaves a readable-but-truncated output.
package exporter

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/corral-io/corral/pkg/compression"
	"github.com/corral-io/corral/pkg/config"
	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/logger"
	"github.com/corral-io/corral/pkg/models"
)

// writeFunc serializes records into w for one format.
type writeFunc func(w io.Writer, records []*models.Record) error

// Export writes records per the export spec and returns the path of the
// file it produced. An unrecognized format fails before the filesystem is
// touched.
func Export(records []*models.Record, spec config.ExportSpec) (string, error) {
	var write writeFunc
	var ext string

	switch spec.Format {
	case config.FormatCSV:
		write, ext = writeCSV, ".csv"
	case config.FormatJSONL:
		write, ext = writeJSONL, ".jsonl"
	case config.FormatColumnar, config.FormatParquet:
		write, ext = writeParquet, ".parquet"
	default:
		return "", errors.Newf(errors.ErrorTypeFormat, "unrecognized export format %q (expected csv, jsonl or columnar)", spec.Format)
	}

	codec, err := compression.Parse(spec.Compression)
	if err != nil {
		return "", err
	}
	if codec != compression.None && ext == ".parquet" {
		// Parquet compresses its own column chunks.
		logger.Warn("ignoring output compression for columnar export", zap.String("codec", string(codec)))
		codec = compression.None
	}

	if err := os.MkdirAll(spec.OutputDir, 0o750); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeExport, "failed to create output directory")
	}

	outPath := filepath.Join(spec.OutputDir, spec.Filename+ext+codec.Extension())
	if err := writeAtomic(outPath, codec, records, write); err != nil {
		return "", err
	}

	logger.Info("export complete",
		zap.String("path", outPath),
		zap.String("format", spec.Format),
		zap.Int("records", len(records)))
	return outPath, nil
}

// writeAtomic writes records through a temp file in the target directory
// and renames it over outPath on success. The temp file is removed on any
// failure.
func writeAtomic(outPath string, codec compression.Codec, records []*models.Record, write writeFunc) (err error) {
	dir := filepath.Dir(outPath)
	base := filepath.Base(outPath)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to create temp output file")
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	cw, err := codec.NewWriter(tmp)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to open compression writer")
	}

	if err = write(cw, records); err != nil {
		return err
	}
	if err = cw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to flush compression writer")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to sync output file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to close output file")
	}

	if err = os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to move output file into place")
	}
	return nil
}
