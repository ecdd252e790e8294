package core

// SheetWriter is any service that can serialize tabular rows into a
// spreadsheet byte payload offered to the user as a download.
type SheetWriter interface {
	// WriteRows serializes a header and data rows to a single-sheet payload.
	WriteRows(header []string, rows [][]string) ([]byte, error)
	// Ext returns the file extension (without dot) of the produced format.
	Ext() string
}
