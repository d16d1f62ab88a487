package reporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const overrideYAML = `
reporters:
  - abbrev: "Wash. App."
    name: "Washington Appellate Reports"
    court: "Wash. Ct. App."
    court_implied: true
    jurisdiction: "US-WA"
    level: intermediate
codes:
  - abbrev: "Wash. Rev. Code"
    name: "Revised Code of Washington"
    jurisdiction: "US-WA"
    variants: ["RCW"]
journals:
  - abbrev: "Wash. L. Rev."
    name: "Washington Law Review"
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "washington.yaml")
	writeFile(t, path, overrideYAML)

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	entry, ok := table.Reporter("Wash. App.")
	if !ok {
		t.Fatal("Expected override reporter")
	}
	if entry.Level != CourtLevelIntermediateAppellate {
		t.Errorf("Expected intermediate level, got %v", entry.Level)
	}
	if !entry.CourtImplied {
		t.Error("Expected court_implied to be read")
	}
	if code, ok := table.Code("RCW"); !ok || code.Abbrev != "Wash. Rev. Code" {
		t.Errorf("Expected variant lookup to resolve, got %+v", code)
	}
	if _, ok := table.Reporter("U.S."); !ok {
		t.Error("Expected defaults to survive overrides")
	}
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	writeFile(t, badYAML, "reporters: [unclosed")
	if _, err := LoadFile(badYAML); err == nil {
		t.Error("Expected error for malformed YAML")
	}

	emptyAbbrev := filepath.Join(dir, "empty.yaml")
	writeFile(t, emptyAbbrev, "codes:\n  - name: \"No abbreviation\"\n")
	if _, err := LoadFile(emptyAbbrev); err == nil {
		t.Error("Expected error for entry without abbreviation")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "01-washington.yaml"), overrideYAML)
	writeFile(t, filepath.Join(dir, "02-rename.yml"), `
journals:
  - abbrev: "Wash. L. Rev."
    name: "Washington Law Review (renamed)"
`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not yaml")

	table, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	journal, ok := table.Journal("Wash. L. Rev.")
	if !ok {
		t.Fatal("Expected journal from overrides")
	}
	if journal.Name != "Washington Law Review (renamed)" {
		t.Errorf("Expected later file to win, got %q", journal.Name)
	}
}

func TestLoadDirectoryNonExistent(t *testing.T) {
	table, err := LoadDirectory(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if table != Default() {
		t.Error("Expected defaults for a missing directory")
	}
}

func TestLoadDirectoryAggregatesErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "reporters: [unclosed")
	writeFile(t, filepath.Join(dir, "b.yaml"), "codes: {bad")

	if _, err := LoadDirectory(dir); err == nil {
		t.Error("Expected error for malformed files")
	}
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStoreFromDirectory(dir, nil)
	if err != nil {
		t.Fatalf("NewStoreFromDirectory() error = %v", err)
	}
	if _, ok := store.Table().Reporter("Wash. App."); ok {
		t.Fatal("Expected override to be absent before it is written")
	}

	var notified *Table
	store.SetOnChange(func(table *Table) { notified = table })

	writeFile(t, filepath.Join(dir, "washington.yaml"), overrideYAML)
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, ok := store.Table().Reporter("Wash. App."); !ok {
		t.Error("Expected override after reload")
	}
	if notified != store.Table() {
		t.Error("Expected change callback with the new table")
	}

	writeFile(t, filepath.Join(dir, "washington.yaml"), "reporters: [unclosed")
	if err := store.Reload(); err == nil {
		t.Error("Expected reload error for malformed YAML")
	}
	if _, ok := store.Table().Reporter("Wash. App."); !ok {
		t.Error("Expected previous table to stay in service after failed reload")
	}
}

func TestStoreReloadNoDirectory(t *testing.T) {
	store := NewStore(nil, nil)
	if err := store.Reload(); err == nil {
		t.Error("Reload() without directory should return error")
	}
	if err := store.Watch(); err == nil {
		t.Error("Watch() without directory should return error")
	}
}

func TestStoreWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping watch test in short mode")
	}

	dir := t.TempDir()
	store, err := NewStoreFromDirectory(dir, nil)
	if err != nil {
		t.Fatalf("NewStoreFromDirectory() error = %v", err)
	}

	changed := make(chan bool, 1)
	store.SetOnChange(func(*Table) {
		select {
		case changed <- true:
		default:
		}
	})

	if err := store.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer store.StopWatch()

	if err := store.Watch(); err == nil {
		t.Error("Expected second Watch() to fail")
	}

	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "washington.yaml"), overrideYAML)

	select {
	case <-changed:
		time.Sleep(100 * time.Millisecond)
	case <-time.After(3 * time.Second):
		t.Log("Watch() did not detect file change within timeout (may be CI environment)")
		return
	}

	if _, ok := store.Table().Reporter("Wash. App."); !ok {
		t.Error("Expected watched override to be loaded")
	}
}
