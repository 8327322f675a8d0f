package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const majorityYAML = `
name: majority-triad
cardinalities: [2, 2, 2]
state: [1, 0, 1]
tpm:
  - [1, 0, 0, 0, 0, 0, 0, 0]
  - [1, 0, 0, 0, 0, 0, 0, 0]
  - [1, 0, 0, 0, 0, 0, 0, 0]
  - [0, 0, 0, 0, 0, 0, 0, 1]
  - [1, 0, 0, 0, 0, 0, 0, 0]
  - [0, 0, 0, 0, 0, 0, 0, 1]
  - [0, 0, 0, 0, 0, 0, 0, 1]
  - [0, 0, 0, 0, 0, 0, 0, 1]
options:
  strategy: exact
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeSystemFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "majority.yaml")
	if err := os.WriteFile(path, []byte(majorityYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestComputeCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSystemFile(t, dir)
	db := filepath.Join(dir, "history.db")

	out, err := execute(t, "compute", path, "--db", db)
	if err != nil {
		t.Fatalf("compute: %v\n%s", err, out)
	}
	if !strings.Contains(out, "majority-triad") {
		t.Errorf("expected system name in output:\n%s", out)
	}
	if !strings.Contains(out, "0.125000") {
		t.Errorf("expected reference phi in output:\n%s", out)
	}
	if !strings.Contains(out, "exact") {
		t.Errorf("expected method in output:\n%s", out)
	}

	// The run must now show up in history.
	out, err = execute(t, "history", "--db", db)
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, "majority-triad") {
		t.Errorf("expected recorded run in history:\n%s", out)
	}
}

func TestComputeCommand_NoRecord(t *testing.T) {
	dir := t.TempDir()
	path := writeSystemFile(t, dir)
	db := filepath.Join(dir, "history.db")

	if _, err := execute(t, "compute", path, "--db", db, "--no-record"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "history", "--db", db)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No recorded runs.") {
		t.Errorf("expected empty history:\n%s", out)
	}
}

func TestConceptsCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSystemFile(t, dir)

	out, err := execute(t, "concepts", path)
	if err != nil {
		t.Fatalf("concepts: %v\n%s", err, out)
	}
	// The table renderer uppercases headers.
	if !strings.Contains(out, "MECHANISM") {
		t.Errorf("expected concepts table header:\n%s", out)
	}
	for _, mech := range []string{"[0]", "[1]", "[2]", "[0 2]"} {
		if !strings.Contains(out, mech) {
			t.Errorf("expected mechanism %s in output:\n%s", mech, out)
		}
	}
}

func TestComputeCommand_MissingFile(t *testing.T) {
	if _, err := execute(t, "compute", "/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing system file")
	}
}
