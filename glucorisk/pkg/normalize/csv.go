package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\uFEFF"

type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("unable to read csv: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ReadCSV reads a header row followed by data rows. Short rows leave the
// missing cells empty. A repeated header keeps its first column.
func ReadCSV(r io.Reader) (RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return RawTable{}, nil
	}
	if err != nil {
		return RawTable{}, &ReadError{Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := RawTable{Header: header, Rows: make([]map[string]string, 0)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return RawTable{}, &ReadError{Err: err}
		}

		row := make(map[string]string, len(header))
		for i, h := range header {
			if _, dup := row[h]; dup {
				continue
			}
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
