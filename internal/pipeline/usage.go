package pipeline

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// usageFilename is the JSONL file appended to in the output directory
// when usage logging is enabled.
const usageFilename = "usage.jsonl"

// usageEntry is one line of the usage log.
type usageEntry struct {
	Timestamp       time.Time `json:"timestamp"`
	FilesCollected  int       `json:"files_collected"`
	RecordsLoaded   int       `json:"records_loaded"`
	RecordsExported int       `json:"records_exported"`
	Format          string    `json:"format"`
	OutputPath      string    `json:"output_path"`
	DurationMS      int64     `json:"duration_ms"`
}

// appendUsage appends one usage entry for a completed run.
func appendUsage(outputDir string, result *Result, format string) error {
	entry := usageEntry{
		Timestamp:       time.Now().UTC(),
		FilesCollected:  result.FilesCollected,
		RecordsLoaded:   result.RecordsLoaded,
		RecordsExported: result.RecordsExported,
		Format:          format,
		OutputPath:      result.OutputPath,
		DurationMS:      result.Duration.Milliseconds(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := filepath.Join(outputDir, usageFilename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // G304: path is under the configured output dir
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}
