package main

import (
	"errors"
	"path/filepath"
	"testing"

	"ytcomments/internal/sorter"
	"ytcomments/internal/testsupport"
)

func TestSortCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Chdir(env.baseDir)
	testsupport.WriteFile(t, env.cfg.Sorter.Input, "label;text\nzeta;last\nalpha;first\nmid;middle\n")

	out, _, err := runCLI(t, []string{"sort"}, env.configPath)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	requireContains(t, out, "Sorting complete! Check 'sorted_file.csv'.")

	got := testsupport.ReadFile(t, env.cfg.Sorter.Output)
	if want := "label;text\nalpha;first\nmid;middle\nzeta;last\n"; got != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", got, want)
	}
}

func TestSortCommandFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.csv")
	output := filepath.Join(env.baseDir, "out.csv")
	testsupport.WriteFile(t, input, "k,v\nb,2\na,1\n")

	if _, _, err := runCLI(t, []string{"sort", "-i", input, "-o", output, "-d", ","}, env.configPath); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if got := testsupport.ReadFile(t, output); got != "k,v\na,1\nb,2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSortCommandRejectsBlankRow(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.cfg.Sorter.Input, "h\nb\n\na\n")

	_, _, err := runCLI(t, []string{"sort"}, env.configPath)
	if !errors.Is(err, sorter.ErrEmptyRow) {
		t.Fatalf("expected ErrEmptyRow, got %v", err)
	}

	out, _, err := runCLI(t, []string{"sort", "--skip-empty"}, env.configPath)
	if err != nil {
		t.Fatalf("sort --skip-empty: %v", err)
	}
	requireContains(t, out, "Sorting complete!")
	if got := testsupport.ReadFile(t, env.cfg.Sorter.Output); got != "h\na\nb\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSortCommandRejectsSameInputAndOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.cfg.Sorter.Input, "h\nb\n")

	_, _, err := runCLI(t, []string{"sort", "-o", env.cfg.Sorter.Input}, env.configPath)
	if err == nil {
		t.Fatal("expected error when output equals input")
	}
}

func TestSortCommandRejectsMultiCharDelimiter(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.cfg.Sorter.Input, "h\nb\n")

	if _, _, err := runCLI(t, []string{"sort", "-d", ";;"}, env.configPath); err == nil {
		t.Fatal("expected delimiter error")
	}
}
