package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corral-io/corral/pkg/config"
	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/loader"
	"github.com/corral-io/corral/pkg/models"
)

func sampleRecords() []*models.Record {
	a := models.NewRecord()
	a.Set("name", "ada")
	a.Set("city", "london")

	b := models.NewRecord()
	b.Set("name", "grace")
	b.Set("city", "arlington")

	return []*models.Record{a, b}
}

func TestExportUnrecognizedFormatFailsBeforeFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")

	_, err := Export(sampleRecords(), config.ExportSpec{
		Format:    "xml",
		OutputDir: dir,
		Filename:  "dataset",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "output dir must not be created for a bad format")
}

func TestExportCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	path, err := Export(sampleRecords(), config.ExportSpec{
		Format:    config.FormatJSONL,
		OutputDir: dir,
		Filename:  "dataset",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dataset.jsonl"), path)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}

func TestExportLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Export(sampleRecords(), config.ExportSpec{
		Format:    config.FormatCSV,
		OutputDir: dir,
		Filename:  "dataset",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dataset.csv", entries[0].Name())
}

func roundTrip(t *testing.T, format string) []*models.Record {
	t.Helper()
	dir := t.TempDir()

	path, err := Export(sampleRecords(), config.ExportSpec{
		Format:    format,
		OutputDir: dir,
		Filename:  "dataset",
	})
	require.NoError(t, err)

	loaded, err := loader.LoadFile(path)
	require.NoError(t, err)
	return loaded
}

func TestRoundTripCSV(t *testing.T) {
	loaded := roundTrip(t, config.FormatCSV)
	require.Len(t, loaded, 2)

	assert.Equal(t, []string{"name", "city"}, loaded[0].Keys())
	name, _ := loaded[0].Get("name")
	city, _ := loaded[1].Get("city")
	assert.Equal(t, "ada", name)
	assert.Equal(t, "arlington", city)
}

func TestRoundTripJSONL(t *testing.T) {
	loaded := roundTrip(t, config.FormatJSONL)
	require.Len(t, loaded, 2)

	for i, want := range sampleRecords() {
		assert.True(t, want.Equal(loaded[i]), "record %d", i)
	}
}

func TestRoundTripColumnar(t *testing.T) {
	loaded := roundTrip(t, config.FormatColumnar)
	require.Len(t, loaded, 2)

	for i, want := range sampleRecords() {
		assert.True(t, want.Equal(loaded[i]), "record %d", i)
	}
}

func TestRoundTripColumnarMixedTypes(t *testing.T) {
	a := models.NewRecord()
	a.Set("name", "ada")
	a.Set("score", 9.5)
	a.Set("active", true)

	b := models.NewRecord()
	b.Set("name", "grace")
	b.Set("score", 8.25)

	dir := t.TempDir()
	path, err := Export([]*models.Record{a, b}, config.ExportSpec{
		Format:    config.FormatParquet,
		OutputDir: dir,
		Filename:  "dataset",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dataset.parquet"), path)

	loaded, err := loader.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	score, _ := loaded[0].Get("score")
	assert.Equal(t, 9.5, score)
	active, _ := loaded[0].Get("active")
	assert.Equal(t, true, active)
	// b never had "active"; the columnar file stores a null there.
	missing, ok := loaded[1].Get("active")
	assert.True(t, ok)
	assert.Nil(t, missing)
}

func TestRoundTripColumnarConflictingTypesStringified(t *testing.T) {
	a := models.NewRecord()
	a.Set("v", int64(1))

	b := models.NewRecord()
	b.Set("v", "x")

	dir := t.TempDir()
	path, err := Export([]*models.Record{a, b}, config.ExportSpec{
		Format:    config.FormatColumnar,
		OutputDir: dir,
		Filename:  "dataset",
	})
	require.NoError(t, err)

	loaded, err := loader.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// A field with disagreeing value types widens to string; no value is
	// dropped to null.
	v0, _ := loaded[0].Get("v")
	v1, _ := loaded[1].Get("v")
	assert.Equal(t, "1", v0)
	assert.Equal(t, "x", v1)
}

func TestExportCompressedJSONLRoundTrip(t *testing.T) {
	dir := t.TempDir()

	path, err := Export(sampleRecords(), config.ExportSpec{
		Format:      config.FormatJSONL,
		OutputDir:   dir,
		Filename:    "dataset",
		Compression: "gzip",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dataset.jsonl.gz"), path)

	loaded, err := loader.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for i, want := range sampleRecords() {
		assert.True(t, want.Equal(loaded[i]), "record %d", i)
	}
}

func TestExportUnknownCompressionFails(t *testing.T) {
	_, err := Export(sampleRecords(), config.ExportSpec{
		Format:      config.FormatCSV,
		OutputDir:   t.TempDir(),
		Filename:    "dataset",
		Compression: "brotli",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestExportCSVUnionHeaders(t *testing.T) {
	a := models.NewRecord()
	a.Set("x", "1")

	b := models.NewRecord()
	b.Set("y", "2")

	dir := t.TempDir()
	path, err := Export([]*models.Record{a, b}, config.ExportSpec{
		Format:    config.FormatCSV,
		OutputDir: dir,
		Filename:  "dataset",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n1,\n,2\n", string(data))
}
