package loader

import (
	"bufio"
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/corral-io/corral/pkg/errors"
	"github.com/corral-io/corral/pkg/models"
)

// loadJSON reads a .json file holding either an array of objects or a
// stream of bare objects. Non-object array elements are skipped.
func loadJSON(r io.Reader) ([]*models.Record, error) {
	dec := gojson.NewDecoder(bufio.NewReader(r))

	token, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read JSON document")
	}

	delim, ok := token.(gojson.Delim)
	if !ok {
		return nil, errors.New(errors.ErrorTypeParse, "JSON document must be an object or an array of objects")
	}

	switch delim {
	case '[':
		return loadJSONArray(dec)
	case '{':
		record, err := decodeObjectBody(dec)
		if err != nil {
			return nil, err
		}
		records := []*models.Record{record}
		// Concatenated bare objects: keep decoding until EOF.
		for {
			token, err := dec.Token()
			if err == io.EOF {
				return records, nil
			}
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read JSON document")
			}
			if d, ok := token.(gojson.Delim); !ok || d != '{' {
				return nil, errors.New(errors.ErrorTypeParse, "unexpected token after JSON object")
			}
			record, err := decodeObjectBody(dec)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	default:
		return nil, errors.New(errors.ErrorTypeParse, "JSON document must be an object or an array of objects")
	}
}

func loadJSONArray(dec *gojson.Decoder) ([]*models.Record, error) {
	var records []*models.Record
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read JSON array element")
		}
		if d, ok := token.(gojson.Delim); !ok || d != '{' {
			// Scalar or nested-array element; it is not a record.
			continue
		}
		record, err := decodeObjectBody(dec)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read JSON array end")
	}
	return records, nil
}

// loadJSONLines reads line-delimited JSON (JSONL/NDJSON): one object per
// line, empty lines skipped.
func loadJSONLines(r io.Reader) ([]*models.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []*models.Record
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		record, err := decodeObject(line)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to parse JSON line").WithDetail("line", lineNum)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to scan JSON lines")
	}
	return records, nil
}

// decodeObject parses one JSON object from raw bytes into a record.
func decodeObject(data []byte) (*models.Record, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := token.(gojson.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrorTypeParse, "expected a JSON object")
	}
	return decodeObjectBody(dec)
}

// decodeObjectBody consumes the fields of a JSON object whose opening
// brace has already been read, preserving key order. Duplicate keys in the
// input follow last-write-wins.
func decodeObjectBody(dec *gojson.Decoder) (*models.Record, error) {
	record := models.NewRecord()
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read JSON object key")
		}
		key, ok := token.(string)
		if !ok {
			return nil, errors.New(errors.ErrorTypeParse, "expected a JSON object key")
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to decode JSON value")
		}
		record.Set(key, value)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read JSON object end")
	}
	return record, nil
}
