package exporter

import (
	"bufio"
	"io"

	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/models"
)

// writeJSONL writes one JSON object per line, with each record's fields in
// their original order.
func writeJSONL(w io.Writer, records []*models.Record) error {
	bw := bufio.NewWriter(w)

	for _, record := range records {
		data, err := record.MarshalJSON()
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeExport, "failed to encode record")
		}
		if _, err := bw.Write(data); err != nil {
			return errors.Wrap(err, errors.ErrorTypeExport, "failed to write JSONL output")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, errors.ErrorTypeExport, "failed to write JSONL output")
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExport, "failed to flush JSONL output")
	}
	return nil
}
