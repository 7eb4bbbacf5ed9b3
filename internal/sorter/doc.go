// Package sorter orders the data rows of a delimited text file by their first
// field while passing the header row through unchanged.
//
// The whole file is read into memory. Rows are compared byte-wise on field 0,
// which for UTF-8 text is code point order, with a stable sort so equal keys
// keep their input order. A blank line is a row with no first field and is
// rejected with ErrEmptyRow unless Options.SkipEmptyRows is set. Output keeps
// the input's delimiter and line ending and is written atomically.
package sorter
