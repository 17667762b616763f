package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corral-io/corral/pkg/config"
	"github.com/corral-io/corral/pkg/models"
)

func record(pairs ...interface{}) *models.Record {
	r := models.NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}

func allOff() config.CleaningOptions {
	return config.CleaningOptions{}
}

func TestTrimThenDedupe(t *testing.T) {
	records := []*models.Record{
		record("a", " x "),
		record("a", "x"),
	}
	opts := allOff()
	opts.TrimWhitespace = true
	opts.DropDuplicates = true

	out := Clean(records, opts)
	require.Len(t, out, 1)
	v, ok := out[0].Get("a")
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestLowerKeysLastWriteWins(t *testing.T) {
	records := []*models.Record{
		record("A", 1, "a", 2),
	}
	opts := allOff()
	opts.LowerKeys = true

	out := Clean(records, opts)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"a"}, out[0].Keys())
	v, _ := out[0].Get("a")
	assert.Equal(t, 2, v)
}

func TestRemoveEmpty(t *testing.T) {
	records := []*models.Record{
		record("a", "", "b", nil),
		record("a", "x"),
	}
	opts := allOff()
	opts.RemoveEmpty = true

	out := Clean(records, opts)
	require.Len(t, out, 1)
	v, _ := out[0].Get("a")
	assert.Equal(t, "x", v)
}

func TestRemoveEmptyKeepsPartiallyFilled(t *testing.T) {
	records := []*models.Record{
		record("a", "", "b", "kept"),
	}
	opts := allOff()
	opts.RemoveEmpty = true

	out := Clean(records, opts)
	assert.Len(t, out, 1)
}

func TestTrimMakesWhitespaceOnlyEmpty(t *testing.T) {
	records := []*models.Record{
		record("a", "  \t "),
	}
	opts := allOff()
	opts.TrimWhitespace = true
	opts.RemoveEmpty = true

	out := Clean(records, opts)
	assert.Empty(t, out)
}

func TestNormalizeUnicodeMakesVariantsEqual(t *testing.T) {
	// "é" as a precomposed rune vs as "e" + combining acute.
	records := []*models.Record{
		record("name", "café"),
		record("name", "café"),
	}
	opts := allOff()
	opts.NormalizeUnicode = true
	opts.DropDuplicates = true

	out := Clean(records, opts)
	require.Len(t, out, 1)
	v, _ := out[0].Get("name")
	assert.Equal(t, "café", v)
}

func TestDropDuplicatesKeepsFirst(t *testing.T) {
	records := []*models.Record{
		record("id", "1", "v", "first"),
		record("id", "2"),
		record("id", "1", "v", "first"),
	}
	opts := allOff()
	opts.DropDuplicates = true

	out := Clean(records, opts)
	require.Len(t, out, 2)
	v, _ := out[0].Get("v")
	assert.Equal(t, "first", v)
}

func TestDupesWithDifferentFieldOrderAreDistinct(t *testing.T) {
	records := []*models.Record{
		record("a", "1", "b", "2"),
		record("b", "2", "a", "1"),
	}
	opts := allOff()
	opts.DropDuplicates = true

	out := Clean(records, opts)
	assert.Len(t, out, 2)
}

func TestCleanDoesNotModifyInput(t *testing.T) {
	in := record("A", " x ")
	opts := config.CleaningOptions{
		DropDuplicates:   true,
		TrimWhitespace:   true,
		NormalizeUnicode: true,
		RemoveEmpty:      true,
		LowerKeys:        true,
	}
	_ = Clean([]*models.Record{in}, opts)

	assert.Equal(t, []string{"A"}, in.Keys())
	v, _ := in.Get("A")
	assert.Equal(t, " x ", v)
}

// Clean must be idempotent for every flag combination: applying it twice
// yields the same collection as applying it once.
func TestCleanIsIdempotent(t *testing.T) {
	base := []*models.Record{
		record("Name", " Ada ", "City", "Zürich"),
		record("name", "Ada", "city", "Zürich"),
		record("name", "", "city", nil),
		record("name", "Ada", "city", "Zürich"),
		record("NAME", "grace", "name", "hopper"),
	}

	for mask := 0; mask < 32; mask++ {
		opts := config.CleaningOptions{
			DropDuplicates:   mask&1 != 0,
			TrimWhitespace:   mask&2 != 0,
			NormalizeUnicode: mask&4 != 0,
			RemoveEmpty:      mask&8 != 0,
			LowerKeys:        mask&16 != 0,
		}

		once := Clean(base, opts)
		twice := Clean(once, opts)

		require.Equal(t, len(once), len(twice), "options %+v", opts)
		for i := range once {
			assert.True(t, once[i].Equal(twice[i]), "options %+v record %d", opts, i)
		}
	}
}
