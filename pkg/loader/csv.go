package loader

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/models"
)

// loadCSV reads a comma-delimited file with a header row. The header
// supplies the field names and their order; every cell loads as a string.
// Rows shorter than the header produce records without the trailing
// fields, and cells beyond the header are ignored.
func loadCSV(r io.Reader) ([]*models.Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read CSV header")
	}

	fields := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		fields[i] = name
	}

	var records []*models.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read CSV row")
		}

		record := models.NewRecordWithCapacity(len(fields))
		for i, name := range fields {
			if i >= len(row) {
				break
			}
			record.Set(name, row[i])
		}
		records = append(records, record)
	}
	return records, nil
}
