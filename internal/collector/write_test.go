package collector_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"ytcomments/internal/collector"
)

func TestWriteTableEmptyWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := collector.WriteTable(collector.Table{}, path)
	if err != nil || n != 0 {
		t.Fatalf("WriteTable = %d, %v", n, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "previous" {
		t.Fatalf("existing file modified: %q", data)
	}

	missing := filepath.Join(t.TempDir(), "missing.csv")
	if _, err := collector.WriteTable(collector.Table{}, missing); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatal("empty table must not create a file")
	}
}

func TestWriteTableCSVFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	table := collector.Table{Entries: []collector.Entry{
		{Text: "plain"},
		{Text: "with, comma"},
		{Text: "line\nbreak"},
		{Text: `say "hi"`},
		{Text: ""},
		{Text: "Kurmancî ê"},
	}}
	n, err := collector.WriteTable(table, path)
	if err != nil {
		t.Fatalf("WriteTable returned error: %v", err)
	}
	if n != 6 {
		t.Fatalf("rows = %d, want 6", n)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "text\nplain\n\"with, comma\"\n\"line\nbreak\"\n\"say \"\"hi\"\"\"\n\"\"\nKurmancî ê\n"
	if string(data) != want {
		t.Fatalf("csv =\n%q\nwant\n%q", data, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("output not valid csv: %v", err)
	}
	if len(records) != 7 {
		t.Fatalf("expected header plus 6 rows, got %d", len(records))
	}
	for i, e := range table.Entries {
		if records[i+1][0] != e.Text {
			t.Fatalf("row %d = %q, want %q", i+1, records[i+1][0], e.Text)
		}
	}
}

func TestWriteTableOutputError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	table := collector.Table{Entries: []collector.Entry{{Text: "x"}}}
	if _, err := collector.WriteTable(table, path); err == nil {
		t.Fatal("expected error for unwritable output path")
	}
}
