package tabular

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// WriteCSV renders the table as delimited text with a header row.
func WriteCSV(table *Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(table.Columns); err != nil {
		return nil, errors.Wrap(err, "failed to write csv header")
	}

	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return nil, errors.Wrap(err, "failed to write csv row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush csv")
	}

	return buf.Bytes(), nil
}

// ReadCSV parses delimited text whose first row is a header into
// string-keyed records. Unrecognized columns survive here; callers decide
// which keys they care about. Short rows simply omit the trailing keys.
func ReadCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to read csv header")
	}

	var records []map[string]string
	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, errors.Wrap(readErr, "failed to read csv row")
		}

		record := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}
