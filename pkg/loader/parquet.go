package loader

import (
	"context"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/models"
)

// loadParquet reads every row of a Parquet file into records, with fields
// in the file's schema order. Null cells load as nil values.
func loadParquet(path string) ([]*models.Record, error) {
	f, err := os.Open(path) //nolint:gosec // G304: paths come from configured source roots
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open parquet file")
	}
	defer f.Close()

	fr, err := file.NewParquetReader(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read parquet file")
	}
	defer fr.Close()

	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to create arrow reader")
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read parquet table")
	}
	defer table.Release()

	schema := table.Schema()
	numCols := int(table.NumCols())
	cols := make([]*arrow.Chunked, numCols)
	for i := range cols {
		cols[i] = table.Column(i).Data()
	}

	records := make([]*models.Record, 0, table.NumRows())
	for row := 0; row < int(table.NumRows()); row++ {
		record := models.NewRecordWithCapacity(numCols)
		for col := 0; col < numCols; col++ {
			record.Set(schema.Field(col).Name, chunkedValue(cols[col], row))
		}
		records = append(records, record)
	}
	return records, nil
}

// chunkedValue resolves a table-level row index into the chunk holding it.
func chunkedValue(chunked *arrow.Chunked, row int) interface{} {
	for _, chunk := range chunked.Chunks() {
		if row < chunk.Len() {
			return columnValue(chunk, row)
		}
		row -= chunk.Len()
	}
	return nil
}

func columnValue(col arrow.Array, row int) interface{} {
	if col.IsNull(row) {
		return nil
	}

	switch c := col.(type) {
	case *array.Boolean:
		return c.Value(row)
	case *array.Int32:
		return int64(c.Value(row))
	case *array.Int64:
		return c.Value(row)
	case *array.Float32:
		return float64(c.Value(row))
	case *array.Float64:
		return c.Value(row)
	case *array.String:
		return c.Value(row)
	case *array.Binary:
		return c.Value(row)
	case *array.Timestamp:
		unit := arrow.Nanosecond
		if t, ok := c.DataType().(*arrow.TimestampType); ok {
			unit = t.Unit
		}
		return c.Value(row).ToTime(unit).UTC()
	default:
		return nil
	}
}
