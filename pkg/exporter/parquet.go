package exporter

import (
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/models"
	"github.com/corral-io/corral/pkg/stringutil"
)

// parquetBatchSize is the number of rows buffered per Arrow record batch.
const parquetBatchSize = 1000

// writeParquet writes records in Parquet with Snappy column compression.
// The schema is inferred from the collection (union of fields, first-seen
// order); fields a record lacks become nulls, so a re-import sees nil
// where the original record had no field at all.
func writeParquet(w io.Writer, records []*models.Record) error {
	schema := models.InferSchema(records)
	arrowSchema, err := toArrowSchema(schema)
	if err != nil {
		return err
	}

	alloc := memory.NewGoAllocator()
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithDictionaryDefault(true),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(alloc))

	fw, err := pqarrow.NewFileWriter(arrowSchema, w, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to create parquet writer")
	}

	builder := array.NewRecordBuilder(alloc, arrowSchema)
	defer builder.Release()

	buffered := 0
	flush := func() error {
		if buffered == 0 {
			return nil
		}
		batch := builder.NewRecord()
		defer batch.Release()
		if err := fw.WriteBuffered(batch); err != nil {
			return errors.Wrap(err, errors.ErrorTypeExport, "failed to write parquet batch")
		}
		buffered = 0
		return nil
	}

	for _, record := range records {
		for i, field := range arrowSchema.Fields() {
			value, _ := record.Get(field.Name)
			appendValue(builder.Field(i), value)
		}
		buffered++
		if buffered >= parquetBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to close parquet writer")
	}
	return nil
}

func toArrowSchema(schema *models.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		var arrowType arrow.DataType
		switch field.Type {
		case models.FieldTypeString:
			arrowType = arrow.BinaryTypes.String
		case models.FieldTypeInt:
			arrowType = arrow.PrimitiveTypes.Int64
		case models.FieldTypeFloat:
			arrowType = arrow.PrimitiveTypes.Float64
		case models.FieldTypeBool:
			arrowType = arrow.FixedWidthTypes.Boolean
		case models.FieldTypeTimestamp:
			arrowType = arrow.FixedWidthTypes.Timestamp_ns
		default:
			return nil, errors.Newf(errors.ErrorTypeExport, "unsupported field type %q", string(field.Type))
		}
		fields = append(fields, arrow.Field{Name: field.Name, Type: arrowType, Nullable: true})
	}
	return arrow.NewSchema(fields, nil), nil
}

// appendValue adds one value to a column builder, coercing where the
// column type allows it and appending null where it does not.
func appendValue(builder array.Builder, value interface{}) {
	if value == nil {
		builder.AppendNull()
		return
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		if v, ok := value.(bool); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}

	case *array.Int64Builder:
		switch v := value.(type) {
		case int:
			b.Append(int64(v))
		case int32:
			b.Append(int64(v))
		case int64:
			b.Append(v)
		case float64:
			b.Append(int64(v))
		default:
			b.AppendNull()
		}

	case *array.Float64Builder:
		switch v := value.(type) {
		case float32:
			b.Append(float64(v))
		case float64:
			b.Append(v)
		case int:
			b.Append(float64(v))
		case int64:
			b.Append(float64(v))
		default:
			b.AppendNull()
		}

	case *array.StringBuilder:
		if v, ok := value.(string); ok {
			b.Append(v)
		} else {
			b.Append(stringutil.ValueToString(value))
		}

	case *array.TimestampBuilder:
		switch v := value.(type) {
		case time.Time:
			b.Append(arrow.Timestamp(v.UnixNano()))
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				b.Append(arrow.Timestamp(t.UnixNano()))
			} else {
				b.AppendNull()
			}
		default:
			b.AppendNull()
		}

	default:
		builder.AppendNull()
	}
}
