package sorter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"ytcomments/internal/fileutil"
	"ytcomments/internal/logging"
)

// DefaultDelimiter separates fields when Options.Delimiter is unset.
const DefaultDelimiter = ';'

var (
	// ErrEmptyInput reports an input without a header row.
	ErrEmptyInput = errors.New("input has no header row")
	// ErrEmptyRow reports a row without any field to sort by.
	ErrEmptyRow = errors.New("row has no fields")
)

// RowError locates a rejected row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Options controls parsing and output.
type Options struct {
	Delimiter     rune
	SkipEmptyRows bool
	Logger        *slog.Logger
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// Table is a parsed delimited file.
type Table struct {
	Header    []string
	Rows      [][]string
	Delimiter rune
	CRLF      bool
	// Skipped counts blank rows dropped under Options.SkipEmptyRows.
	Skipped int
}

// Result summarizes a SortFile call.
type Result struct {
	Rows    int
	Skipped int
}

// Parse decodes data into a table. Field counts are not validated.
func Parse(data []byte, opts Options) (Table, error) {
	table := Table{Delimiter: opts.delimiter(), CRLF: firstLineCRLF(data)}
	if len(data) == 0 {
		return table, ErrEmptyInput
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = table.Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	// encoding/csv silently skips blank lines, so they are recovered from the
	// gap between the line a record starts on and the lines consumed so far.
	consumed := 0
	var offset int64
	blank := func(from, to int) error {
		for line := from; line < to; line++ {
			if !opts.SkipEmptyRows {
				return &RowError{Line: line, Err: ErrEmptyRow}
			}
			table.Skipped++
		}
		return nil
	}

	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table, fmt.Errorf("parse: %w", err)
		}
		start, _ := r.FieldPos(0)
		if err := blank(consumed+1, start); err != nil {
			return table, err
		}
		next := r.InputOffset()
		consumed += bytes.Count(data[offset:next], []byte{'\n'})
		offset = next
		records = append(records, record)
	}
	trailing := bytes.Count(data[offset:], []byte{'\n'})
	if err := blank(consumed+1, consumed+1+trailing); err != nil {
		return table, err
	}

	if len(records) == 0 {
		return table, ErrEmptyInput
	}
	table.Header = records[0]
	table.Rows = records[1:]
	return table, nil
}

func firstLineCRLF(data []byte) bool {
	i := bytes.IndexByte(data, '\n')
	return i > 0 && data[i-1] == '\r'
}

// Read loads and parses the file at path.
func Read(path string, opts Options) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	table, err := Parse(data, opts)
	if err != nil {
		return table, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// SortRows stably orders rows by the byte-wise value of their first field.
func SortRows(rows [][]string) {
	slices.SortStableFunc(rows, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})
}

// SortTable returns a copy of t with its rows sorted. The header is untouched.
func SortTable(t Table) Table {
	sorted := t
	sorted.Rows = slices.Clone(t.Rows)
	SortRows(sorted.Rows)
	return sorted
}

// Encode writes the header and rows of t. A record made of one empty field is
// written as "" because csv.Writer would emit a blank line, which Parse
// rejects as an empty row.
func Encode(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = t.Delimiter
	if cw.Comma == 0 {
		cw.Comma = DefaultDelimiter
	}
	cw.UseCRLF = t.CRLF
	eol := "\n"
	if t.CRLF {
		eol = "\r\n"
	}

	write := func(record []string) error {
		if len(record) == 1 && record[0] == "" {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			_, err := io.WriteString(w, `""`+eol)
			return err
		}
		return cw.Write(record)
	}

	if err := write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SortFile sorts the data rows of input and writes the result to output.
func SortFile(input, output string, opts Options) (Result, error) {
	logger := logging.NewComponentLogger(opts.Logger, "sorter")
	table, err := Read(input, opts)
	if err != nil {
		return Result{}, err
	}
	if table.Skipped > 0 {
		logging.WarnWithContext(logger, "skipped blank rows", "sorter_empty_rows",
			logging.Int("skipped", table.Skipped),
			logging.String("input", input),
			logging.String(logging.FieldErrorHint, "remove blank lines from the input to silence this warning"),
			logging.String(logging.FieldImpact, "blank rows are not written to the output"))
	}

	sorted := SortTable(table)
	err = fileutil.WriteAtomic(output, 0o644, func(w io.Writer) error {
		return Encode(w, sorted)
	})
	if err != nil {
		return Result{}, fmt.Errorf("write %s: %w", output, err)
	}

	logger.Info("sorted file",
		logging.String("input", input),
		logging.String("output", output),
		logging.Int("row_count", len(sorted.Rows)))
	return Result{Rows: len(sorted.Rows), Skipped: table.Skipped}, nil
}
