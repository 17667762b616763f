// Package models provides the data model shared by every pipeline stage.
//
// A Record is one logical row of structured data: an ordered mapping from
// field name to scalar or nested value. Field order is preserved from the
// input that produced the record (CSV header order, JSON object key order,
// Parquet schema order) and is significant for deduplication and for
// row-oriented export.
package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Record is an ordered field-name to value mapping representing one row.
// The zero value is not usable; create records with NewRecord.
type Record struct {
	keys   []string
	values map[string]interface{}
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{
		values: make(map[string]interface{}),
	}
}

// NewRecordWithCapacity creates an empty record sized for n fields.
func NewRecordWithCapacity(n int) *Record {
	return &Record{
		keys:   make([]string, 0, n),
		values: make(map[string]interface{}, n),
	}
}

// Set stores a field value. A new field name is appended to the field
// order; setting an existing name overwrites its value in place
// (last-write-wins), keeping the position of the first occurrence.
func (r *Record) Set(key string, value interface{}) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for a field name and whether it is present.
func (r *Record) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the field names in order. The returned slice is a copy.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Clone returns a shallow copy of the record. Field order is preserved;
// nested values are shared with the original.
func (r *Record) Clone() *Record {
	clone := NewRecordWithCapacity(len(r.keys))
	for _, k := range r.keys {
		clone.Set(k, r.values[k])
	}
	return clone
}

// MarshalJSON encodes the record as a JSON object with fields in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Fingerprint returns a canonical byte encoding of the record used for
// structural equality. Two records have equal fingerprints iff they have
// the same field names with the same values in the same order.
func (r *Record) Fingerprint() (string, error) {
	data, err := r.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Equal reports whether two records are structurally identical: same
// field names, same values, same order.
func (r *Record) Equal(other *Record) bool {
	if other == nil || len(r.keys) != len(other.keys) {
		return false
	}
	a, err := r.Fingerprint()
	if err != nil {
		return false
	}
	b, err := other.Fingerprint()
	if err != nil {
		return false
	}
	return a == b
}
