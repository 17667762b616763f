package models

import "time"

// FieldType identifies the inferred type of a record field.
type FieldType string

const (
	// FieldTypeString represents text values
	FieldTypeString FieldType = "string"
	// FieldTypeInt represents integer values
	FieldTypeInt FieldType = "int"
	// FieldTypeFloat represents floating point values
	FieldTypeFloat FieldType = "float"
	// FieldTypeBool represents boolean values
	FieldTypeBool FieldType = "bool"
	// FieldTypeTimestamp represents time values
	FieldTypeTimestamp FieldType = "timestamp"
)

// Field describes one column of a record collection.
type Field struct {
	Name string
	Type FieldType
}

// Schema describes the tabular shape of a record collection. It is derived
// on demand for the columnar exporter; nothing validates records against it.
type Schema struct {
	Fields []Field
}

// InferSchema derives a schema from a record collection: the union of all
// field names in first-seen order, each typed from its non-nil values.
// A field whose values disagree on type widens to string so that every
// value survives export in stringified form. Fields never seen non-nil
// fall back to string.
func InferSchema(records []*Record) *Schema {
	var order []string
	types := make(map[string]FieldType)
	seen := make(map[string]bool)

	for _, record := range records {
		for _, key := range record.Keys() {
			if !seen[key] {
				seen[key] = true
				order = append(order, key)
			}
			value, _ := record.Get(key)
			t, ok := typeOf(value)
			if !ok {
				continue
			}
			if existing, typed := types[key]; typed {
				if existing != t {
					types[key] = FieldTypeString
				}
				continue
			}
			types[key] = t
		}
	}

	schema := &Schema{Fields: make([]Field, 0, len(order))}
	for _, name := range order {
		t, ok := types[name]
		if !ok {
			t = FieldTypeString
		}
		schema.Fields = append(schema.Fields, Field{Name: name, Type: t})
	}
	return schema
}

func typeOf(value interface{}) (FieldType, bool) {
	switch value.(type) {
	case nil:
		return "", false
	case bool:
		return FieldTypeBool, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return FieldTypeInt, true
	case float32, float64:
		return FieldTypeFloat, true
	case time.Time:
		return FieldTypeTimestamp, true
	default:
		return FieldTypeString, true
	}
}
