package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeInput(t, "people.csv", "name,age\nada,36\ngrace,45\n")

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"name", "age"}, records[0].Keys())
	name, _ := records[0].Get("name")
	age, _ := records[0].Get("age")
	assert.Equal(t, "ada", name)
	// CSV cells always load as strings.
	assert.Equal(t, "36", age)
}

func TestLoadCSVBOMAndShortRows(t *testing.T) {
	path := writeInput(t, "odd.csv", "\uFEFFa,b\n1\n2,3,4\n")

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"a"}, records[0].Keys())
	assert.Equal(t, []string{"a", "b"}, records[1].Keys())
}

func TestLoadCSVEmptyFile(t *testing.T) {
	path := writeInput(t, "empty.csv", "")

	records, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadJSONLines(t *testing.T) {
	path := writeInput(t, "rows.jsonl", `{"b":"2","a":1}
{"a":2,"b":null}

{"c":true}
`)

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// JSON object key order is preserved.
	assert.Equal(t, []string{"b", "a"}, records[0].Keys())
	b, _ := records[1].Get("b")
	assert.Nil(t, b)
	c, _ := records[2].Get("c")
	assert.Equal(t, true, c)
}

func TestLoadJSONArray(t *testing.T) {
	path := writeInput(t, "rows.json", `[{"x":1},{"y":"two"},"skipped",3]`)

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	x, _ := records[0].Get("x")
	assert.Equal(t, float64(1), x)
	y, _ := records[1].Get("y")
	assert.Equal(t, "two", y)
}

func TestLoadJSONSingleObject(t *testing.T) {
	path := writeInput(t, "one.json", `{"only":"record"}`)

	records, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestLoadFileUnknownExtension(t *testing.T) {
	path := writeInput(t, "notes.txt", "hello")

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileMalformedJSONL(t *testing.T) {
	path := writeInput(t, "bad.jsonl", "{not json}\n")

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestColumnValueTimestampUnits(t *testing.T) {
	alloc := memory.NewGoAllocator()
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	units := []arrow.TimeUnit{arrow.Second, arrow.Millisecond, arrow.Microsecond, arrow.Nanosecond}
	for _, unit := range units {
		b := array.NewTimestampBuilder(alloc, &arrow.TimestampType{Unit: unit, TimeZone: "UTC"})
		ts, err := arrow.TimestampFromTime(want, unit)
		require.NoError(t, err, unit.String())
		b.Append(ts)
		col := b.NewArray()

		got, ok := columnValue(col, 0).(time.Time)
		require.True(t, ok, unit.String())
		assert.True(t, want.Equal(got), "unit %s: got %s", unit, got)

		col.Release()
		b.Release()
	}
}

func TestLoadSkipsBrokenFiles(t *testing.T) {
	good := writeInput(t, "good.jsonl", `{"a":1}`+"\n")
	bad := writeInput(t, "bad.jsonl", "{broken\n")
	missing := filepath.Join(t.TempDir(), "missing.csv")

	records := Load([]string{bad, good, missing})
	require.Len(t, records, 1)
	a, _ := records[0].Get("a")
	assert.Equal(t, float64(1), a)
}
