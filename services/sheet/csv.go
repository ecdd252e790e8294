package sheetsvc

import (
	"bytes"
	"encoding/csv"

	"github.com/pkg/errors"

	"github.com/mwalimu/darasa/core"
)

// CSVWriter serializes rows as RFC 4180 CSV, which spreadsheet apps open
// directly. Implements core.SheetWriter.
type CSVWriter struct{}

var _ core.SheetWriter = (*CSVWriter)(nil)

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

func (w *CSVWriter) WriteRows(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(header); err != nil {
		return nil, errors.Wrap(err, "writing sheet header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return nil, errors.Wrap(err, "writing sheet rows")
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, errors.Wrap(err, "flushing sheet")
	}
	return buf.Bytes(), nil
}

func (w *CSVWriter) Ext() string { return "csv" }
