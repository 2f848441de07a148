package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// renderResult formats one FileResult for terminal display.
func renderResult(r FileResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", r.File)
	if !r.OK() {
		fmt.Fprintf(&b, "Error: %s\n", r.Err)
		return b.String()
	}
	fmt.Fprintf(&b, "Characters: %d\n", r.Characters)
	fmt.Fprintf(&b, "Tokens: %d\n", r.Tokens)
	if r.Rows > 0 || r.Columns > 0 {
		fmt.Fprintf(&b, "Rows: %d\n", r.Rows)
		fmt.Fprintf(&b, "Columns: %d\n", r.Columns)
	} else if r.Entries > 0 {
		fmt.Fprintf(&b, "Entries: %d\n", r.Entries)
	}
	return b.String()
}

// renderSummary formats the aggregate view of a walk.
func renderSummary(results []FileResult, model string) string {
	var totalTokens, failed int
	for _, r := range results {
		if r.OK() {
			totalTokens += r.Tokens
		} else {
			failed++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Summary (%s) ---\n", model)
	fmt.Fprintf(&b, "Total files processed: %d\n", len(results))
	fmt.Fprintf(&b, "Files processed successfully: %d\n", len(results)-failed)
	fmt.Fprintf(&b, "Total tokens: %d\n", totalTokens)
	return b.String()
}

// renderDetails formats the per-file listing that follows a summary.
func renderDetails(results []FileResult) string {
	var b strings.Builder
	for _, r := range results {
		if !r.OK() {
			fmt.Fprintf(&b, "Error processing %s: %s\n", r.File, r.Err)
			continue
		}
		fmt.Fprintf(&b, "File: %s\n", r.File)
		fmt.Fprintf(&b, "  Tokens: %d\n", r.Tokens)
		fmt.Fprintf(&b, "  Characters: %d\n", r.Characters)
	}
	return b.String()
}

// SaveResults persists results to path, choosing the format from the
// extension: .csv writes a tabular file, anything else (including no
// extension) writes indented JSON.
func SaveResults(results []FileResult, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return saveResultsCSV(results, path)
	default:
		return saveResultsJSON(results, path)
	}
}

func saveResultsJSON(results []FileResult, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

var resultCSVHeader = []string{"file", "model", "tokens", "characters", "entries", "rows", "columns", "error"}

func saveResultsCSV(results []FileResult, path string) error {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(resultCSVHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.File,
			r.Model,
			strconv.Itoa(r.Tokens),
			strconv.Itoa(r.Characters),
			strconv.Itoa(r.Entries),
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Columns),
			r.Err,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// LoadResults reads back a JSON results file written by SaveResults.
func LoadResults(path string) ([]FileResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []FileResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("invalid results file %s: %v", path, err)
	}
	return results, nil
}
