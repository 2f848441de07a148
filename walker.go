package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// defaultExtensions is the extension filter used when a walk is given none.
var defaultExtensions = []string{".txt", ".json", ".csv", ".md", ".py", ".js", ".html", ".css"}

// WalkOptions controls a directory walk.
type WalkOptions struct {
	// Extensions limits the walk to matching file suffixes. Entries may be
	// given with or without the leading dot and in any case. Empty means
	// the default set.
	Extensions []string
	// Recursive descends into subdirectories. When false, only the
	// immediate contents of the root are considered.
	Recursive bool
	// OnFile, when non-nil, is called with each matched path just before
	// it is processed. Used by the CLI for progress feedback; the walk
	// itself never prints.
	OnFile func(path string)
}

func normalizeExtensions(exts []string) map[string]bool {
	if len(exts) == 0 {
		exts = defaultExtensions
	}
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

// CountDir walks root sequentially and counts every file whose extension is
// in the active filter, one FileResult per matched file in traversal order.
// A fault on a single file is captured as a failure record rather than
// aborting the walk; a missing or non-directory root fails the call itself.
func (c *TokenCounter) CountDir(root string, opts WalkOptions) ([]FileResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	exts := normalizeExtensions(opts.Extensions)
	var results []FileResult

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// An entry that vanished or became unreadable mid-walk still
			// gets a failure record if it would have been counted.
			if exts[strings.ToLower(filepath.Ext(path))] {
				results = append(results, FileResult{File: path, Model: c.Model, Err: err.Error()})
			}
			return nil
		}

		if d.IsDir() {
			if !opts.Recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		if opts.OnFile != nil {
			opts.OnFile(path)
		}

		res, err := c.CountFile(path)
		if err != nil {
			results = append(results, FileResult{File: path, Model: c.Model, Err: err.Error()})
			return nil
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}

	return results, nil
}
