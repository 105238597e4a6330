package export

import (
	"encoding/csv"
	"io"

	"frigora/internal/core"
)

// Free-text report columns that may carry user input.
var freeTextColumns = []int{1, 3, 4}

// WriteCSV writes the report table, header first, guarding free-text cells against formula injection.
func WriteCSV(w io.Writer, report *core.Report) error {
	header, body := report.Table()
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, cells := range body {
		for _, i := range freeTextColumns {
			cells[i] = CSVSafe(cells[i])
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVSafe prevents CSV formula injection by prefixing cells that begin with a
// formula-triggering character with a single quote.
func CSVSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
