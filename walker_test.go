package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountDirDefaults(t *testing.T) {
	counter := newTestCounter(t)
	dir := t.TempDir()
	writeTestFile(t, dir, "test.txt", "This is a test file for counting tokens.")
	writeTestFile(t, dir, "test.json", `{"key": "value", "test": "data"}`)

	results, err := counter.CountDir(dir, WalkOptions{Recursive: false})
	if err != nil {
		t.Fatalf("CountDir(%q) failed: %v", dir, err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	for _, r := range results {
		if !r.OK() {
			t.Errorf("result for %s carries error: %s", r.File, r.Err)
		}
		if r.Tokens <= 0 {
			t.Errorf("result for %s has Tokens = %d, want positive count", r.File, r.Tokens)
		}
		if strings.HasSuffix(r.File, ".json") && r.Entries != 1 {
			t.Errorf("JSON result has Entries = %d, want 1", r.Entries)
		}
	}
}

func TestCountDirNonRecursiveSkipsSubdirs(t *testing.T) {
	counter := newTestCounter(t)
	dir := t.TempDir()
	rootFile := writeTestFile(t, dir, "root.txt", "root level content")
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, sub, "nested.txt", "nested content")

	results, err := counter.CountDir(dir, WalkOptions{Recursive: false})
	if err != nil {
		t.Fatalf("CountDir failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("non-recursive walk got %d results, want 1", len(results))
	}
	if results[0].File != rootFile {
		t.Errorf("got %q, want %q", results[0].File, rootFile)
	}

	results, err = counter.CountDir(dir, WalkOptions{Recursive: true})
	if err != nil {
		t.Fatalf("CountDir failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("recursive walk got %d results, want 2", len(results))
	}
}

func TestCountDirExtensionNormalization(t *testing.T) {
	counter := newTestCounter(t)
	dir := t.TempDir()
	writeTestFile(t, dir, "note.txt", "text content")
	writeTestFile(t, dir, "data.json", `{"a": 1}`)
	writeTestFile(t, dir, "readme.md", "# readme")

	// Extensions may be supplied without a dot and in any case.
	results, err := counter.CountDir(dir, WalkOptions{
		Extensions: []string{"TXT", " json"},
		Recursive:  false,
	})
	if err != nil {
		t.Fatalf("CountDir failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if strings.HasSuffix(r.File, ".md") {
			t.Errorf("filtered-out file appeared in results: %s", r.File)
		}
	}
}

func TestCountDirCapturesPerFileFailures(t *testing.T) {
	counter := newTestCounter(t)
	dir := t.TempDir()
	writeTestFile(t, dir, "good.txt", "perfectly fine content")
	writeTestFile(t, dir, "bad.json", `{definitely not json`)

	results, err := counter.CountDir(dir, WalkOptions{Recursive: false})
	if err != nil {
		t.Fatalf("CountDir failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (failures must not drop entries)", len(results))
	}

	var good, bad *FileResult
	for i := range results {
		switch filepath.Base(results[i].File) {
		case "good.txt":
			good = &results[i]
		case "bad.json":
			bad = &results[i]
		}
	}
	if good == nil || bad == nil {
		t.Fatalf("missing expected entries in results: %+v", results)
	}
	if !good.OK() {
		t.Errorf("good.txt carries error: %s", good.Err)
	}
	if bad.OK() {
		t.Error("bad.json should carry a failure record")
	}
	if bad.Err == "" {
		t.Error("failure record has empty error message")
	}
	if bad.Model != counter.Model {
		t.Errorf("failure record Model = %q, want %q", bad.Model, counter.Model)
	}
}

func TestCountDirUnmatchedFilesOmitted(t *testing.T) {
	counter := newTestCounter(t)
	dir := t.TempDir()
	writeTestFile(t, dir, "keep.txt", "kept")
	writeTestFile(t, dir, "skip.xyz", "skipped entirely")

	results, err := counter.CountDir(dir, WalkOptions{Recursive: false})
	if err != nil {
		t.Fatalf("CountDir failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if filepath.Base(results[0].File) != "keep.txt" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestCountDirRootFaults(t *testing.T) {
	counter := newTestCounter(t)

	if _, err := counter.CountDir(filepath.Join(t.TempDir(), "missing"), WalkOptions{}); err == nil {
		t.Error("CountDir on missing root returned nil error")
	} else if !strings.Contains(err.Error(), "directory not found") {
		t.Errorf("error = %q, want directory-not-found message", err)
	}

	file := writeTestFile(t, t.TempDir(), "plain.txt", "not a directory")
	if _, err := counter.CountDir(file, WalkOptions{}); err == nil {
		t.Error("CountDir on a file returned nil error")
	} else if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("error = %q, want not-a-directory message", err)
	}
}

func TestCountDirProgressCallback(t *testing.T) {
	counter := newTestCounter(t)
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "one")
	writeTestFile(t, dir, "b.md", "two")
	writeTestFile(t, dir, "c.xyz", "not counted")

	var seen []string
	results, err := counter.CountDir(dir, WalkOptions{
		Recursive: false,
		OnFile:    func(path string) { seen = append(seen, path) },
	})
	if err != nil {
		t.Fatalf("CountDir failed: %v", err)
	}
	if len(seen) != len(results) {
		t.Errorf("OnFile called %d times, want %d", len(seen), len(results))
	}
}
