package collector

import (
	"encoding/csv"
	"fmt"
	"io"

	"ytcomments/internal/fileutil"
)

// CSVHeader is the single column written by WriteTable.
const CSVHeader = "text"

// WriteTable writes the entries of table to path as a one-column CSV with a
// "text" header. An empty table writes nothing and leaves any existing file
// untouched. It returns the number of rows written.
func WriteTable(table Table, path string) (int, error) {
	if table.Len() == 0 {
		return 0, nil
	}
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeCSV(w, table.Entries)
	})
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return table.Len(), nil
}

// EncodeCSV writes the header and one row per entry. An empty text is
// written as "" so the row survives readers that skip blank lines.
func EncodeCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{CSVHeader}); err != nil {
		return err
	}
	for _, e := range entries {
		if e.Text == "" {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return err
			}
			continue
		}
		if err := cw.Write([]string{e.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
