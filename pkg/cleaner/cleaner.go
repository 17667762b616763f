// Package cleaner applies the record-level cleaning transforms.
//
// Every enabled transform is independent and stateless; they run in one
// fixed order so that any flag combination yields deterministic results:
//
//  1. lower_keys: field names are lowercased (last-write-wins on collision)
//  2. trim_whitespace: string values lose leading/trailing whitespace
//  3. normalize_unicode: string values are NFC-normalized
//  4. remove_empty: records whose fields are all empty are dropped
//  5. drop_duplicates: structurally identical records collapse to the first
//
// Trimming and normalization run before the emptiness and duplicate checks
// so that whitespace-only and visually-identical variants compare equal.
// Clean is a pure function of its inputs: applying it twice with the same
// options yields the same output as applying it once.
package cleaner

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/corral-io/corral/pkg/config"
	"github.com/corral-io/corral/pkg/logger"
	"github.com/corral-io/corral/pkg/models"
)

// Clean applies the enabled transforms to a record collection and returns
// the cleaned collection. Input records are not modified.
func Clean(records []*models.Record, opts config.CleaningOptions) []*models.Record {
	cleaned := make([]*models.Record, 0, len(records))

	for _, record := range records {
		out := record.Clone()
		if opts.LowerKeys {
			out = lowerKeys(out)
		}
		if opts.TrimWhitespace {
			out = mapStrings(out, strings.TrimSpace)
		}
		if opts.NormalizeUnicode {
			out = mapStrings(out, norm.NFC.String)
		}
		if opts.RemoveEmpty && isEmpty(out) {
			continue
		}
		cleaned = append(cleaned, out)
	}

	if opts.DropDuplicates {
		cleaned = dropDuplicates(cleaned)
	}
	return cleaned
}

// lowerKeys rewrites every field name to lowercase. When two names
// collapse to the same lowercased key, the later field's value wins while
// the field keeps the position of the first occurrence.
func lowerKeys(record *models.Record) *models.Record {
	out := models.NewRecordWithCapacity(record.Len())
	for _, key := range record.Keys() {
		value, _ := record.Get(key)
		out.Set(strings.ToLower(key), value)
	}
	return out
}

// mapStrings applies fn to every string-valued field.
func mapStrings(record *models.Record, fn func(string) string) *models.Record {
	out := models.NewRecordWithCapacity(record.Len())
	for _, key := range record.Keys() {
		value, _ := record.Get(key)
		if s, ok := value.(string); ok {
			value = fn(s)
		}
		out.Set(key, value)
	}
	return out
}

// isEmpty reports whether every field of the record is empty. Empty string
// and nil both count; a record with no fields at all is also empty.
func isEmpty(record *models.Record) bool {
	for _, key := range record.Keys() {
		value, _ := record.Get(key)
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		return false
	}
	return true
}

// dropDuplicates removes records structurally identical to an earlier
// record, keeping the first occurrence.
func dropDuplicates(records []*models.Record) []*models.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]*models.Record, 0, len(records))

	for _, record := range records {
		fp, err := record.Fingerprint()
		if err != nil {
			// Unfingerprintable records cannot be compared; keep them.
			logger.Warn("failed to fingerprint record, keeping it", zap.Error(err))
			out = append(out, record)
			continue
		}
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, record)
	}
	return out
}
