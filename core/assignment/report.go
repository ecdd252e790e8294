package assignment

import (
	"fmt"
	"time"

	"github.com/mwalimu/darasa/core"
)

// SheetMeta names the cohort an exported sheet belongs to.
type SheetMeta struct {
	Department string
	Year       int
}

var sheetHeader = []string{"rollno", "name", "section", "submitted"}

// AggregateBySection groups completions by section, preserving the input
// (roll-number ascending) order within each group.
func AggregateBySection(completions []Completion) map[string][]Completion {
	groups := make(map[string][]Completion)
	for _, c := range completions {
		groups[c.Section] = append(groups[c.Section], c)
	}
	return groups
}

// renderSubmitted renders a submission instant as "<date> - <time>",
// e.g. "Fri Apr 14 2023 - 3:04:05 PM".
func renderSubmitted(t time.Time) string {
	return t.Format("Mon Jan 02 2006") + " - " + t.Format("3:04:05 PM")
}

// ExportSection serializes one section's completions to a spreadsheet
// payload, returning the suggested filename alongside the bytes.
func ExportSection(completions []Completion, section string, meta SheetMeta, w core.SheetWriter) (string, []byte, error) {
	rows := make([][]string, 0, len(completions))
	for _, c := range completions {
		if c.Section != section {
			continue
		}
		rows = append(rows, []string{c.RollNo, c.Name, c.Section, renderSubmitted(c.SubmittedAt)})
	}

	data, err := w.WriteRows(sheetHeader, rows)
	if err != nil {
		return "", nil, err
	}
	filename := fmt.Sprintf("%s-%d-%s-sheet.%s", meta.Department, meta.Year, section, w.Ext())
	return filename, data, nil
}
