package exporter

import (
	"encoding/csv"
	"io"

	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/models"
	"github.com/corral-io/corral/pkg/stringutil"
)

// writeCSV writes records as comma-delimited rows under a header built
// from the union of all field names in first-seen order. Every value is
// stringified; fields a record lacks become empty cells. This narrowing is
// inherent to CSV: numbers and booleans re-import as strings.
func writeCSV(w io.Writer, records []*models.Record) error {
	cw := csv.NewWriter(w)

	headers := unionFields(records)
	if len(headers) == 0 {
		cw.Flush()
		return csvError(cw.Error())
	}

	if err := cw.Write(headers); err != nil {
		return csvError(err)
	}

	row := make([]string, len(headers))
	for _, record := range records {
		for i, name := range headers {
			if value, ok := record.Get(name); ok {
				row[i] = stringutil.ValueToString(value)
			} else {
				row[i] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return csvError(err)
		}
	}

	cw.Flush()
	return csvError(cw.Error())
}

// unionFields returns every field name appearing in any record, in
// first-seen order.
func unionFields(records []*models.Record) []string {
	var fields []string
	seen := make(map[string]struct{})
	for _, record := range records {
		for _, name := range record.Keys() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			fields = append(fields, name)
		}
	}
	return fields
}

func csvError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, errors.ErrorTypeExport, "failed to write CSV output")
}
