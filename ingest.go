package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitignore "github.com/monochromegane/go-gitignore"
)

// IngestOption describes one extractable slice of a repository.
type IngestOption struct {
	Name     string
	Patterns []string // gitignore-syntax include patterns, matched against repo-relative paths
	Subdir   string   // output subfolder under the data dir
}

// Repository is one entry in the ingest catalog.
type Repository struct {
	Name        string
	URL         string
	Description string
	Options     []IngestOption
}

// repositories is the fixed catalog of ingestable repositories.
var repositories = []Repository{
	{
		Name:        "shoreline",
		URL:         "git@github.com:vtex/shoreline.git",
		Description: "VTEX Shoreline Design System",
		Options: []IngestOption{
			{
				Name:     "Documentation > Best Practices",
				Patterns: []string{"**/best-practices.mdx"},
				Subdir:   "shoreline-best-practices",
			},
			{
				Name:     "Documentation > Examples",
				Patterns: []string{"**/docs/examples/*.tsx"},
				Subdir:   "shoreline-examples",
			},
		},
	},
	{
		Name:        "faststore",
		URL:         "git@github.com:vtex/faststore.git",
		Description: "VTEX FastStore framework",
		Options: []IngestOption{
			{
				Name:     "Documentation",
				Patterns: []string{"**/docs/**/*.mdx"},
				Subdir:   "faststore-docs",
			},
			{
				Name:     "Components",
				Patterns: []string{"**/src/components/**/*.tsx", "**/src/components/**/*.ts"},
				Subdir:   "faststore-components",
			},
		},
	},
}

// cloneRepository clones url into dest, fetching only the default branch.
// Clone progress is streamed to progress (may be nil).
func cloneRepository(url, dest string, progress io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create clone directory: %w", err)
	}

	_, err := git.PlainClone(dest, false, &git.CloneOptions{
		URL:           url,
		Progress:      progress,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(dest)
		return fmt.Errorf("failed to clone repository %s: %w", url, err)
	}
	return nil
}

// newIncludeMatcher builds a matcher that selects paths matching any of the
// gitignore-syntax patterns. The ignore semantics are inverted: a "Match"
// here means include.
func newIncludeMatcher(patterns []string) gitignore.IgnoreMatcher {
	return gitignore.NewGitIgnoreFromReader(".", strings.NewReader(strings.Join(patterns, "\n")))
}

// Digest is the aggregate extraction produced by an ingest run.
type Digest struct {
	Summary string
	Tree    string
	Content string
	Files   int
}

// buildDigest walks repoPath and concatenates every file matching the
// include patterns into a single digest. The repository's .git directory is
// always skipped.
func buildDigest(repoPath string, patterns []string) (Digest, error) {
	info, err := os.Stat(repoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Digest{}, fmt.Errorf("repository not found: %s", repoPath)
		}
		return Digest{}, err
	}
	if !info.IsDir() {
		return Digest{}, fmt.Errorf("not a directory: %s", repoPath)
	}

	matcher := newIncludeMatcher(patterns)
	var paths []string
	var content strings.Builder

	err = filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(repoPath, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !matcher.Match(rel, false) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		paths = append(paths, rel)
		content.WriteString(strings.Repeat("=", 48))
		content.WriteString("\n")
		fmt.Fprintf(&content, "File: %s\n", rel)
		content.WriteString(strings.Repeat("=", 48))
		content.WriteString("\n")
		content.Write(raw)
		if len(raw) > 0 && raw[len(raw)-1] != '\n' {
			content.WriteString("\n")
		}
		content.WriteString("\n")
		return nil
	})
	if err != nil {
		return Digest{}, fmt.Errorf("error walking repository %s: %w", repoPath, err)
	}

	summary := fmt.Sprintf("Repository: %s\nFiles analyzed: %d\n", filepath.Base(repoPath), len(paths))
	return Digest{
		Summary: summary,
		Tree:    renderDigestTree(paths, filepath.Base(repoPath)),
		Content: content.String(),
		Files:   len(paths),
	}, nil
}

// WriteDigest writes the digest (summary, tree, then content) to outputPath,
// creating parent directories as needed.
func WriteDigest(d Digest, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	var b strings.Builder
	b.WriteString(d.Summary)
	b.WriteString("\n")
	b.WriteString(d.Tree)
	b.WriteString("\n")
	b.WriteString(d.Content)
	return os.WriteFile(outputPath, []byte(b.String()), 0644)
}

// --- digest tree rendering ---

type treeNode struct {
	name     string
	children map[string]*treeNode
}

// renderDigestTree draws the matched paths as a directory tree rooted at
// rootName.
func renderDigestTree(paths []string, rootName string) string {
	root := &treeNode{name: rootName, children: map[string]*treeNode{}}
	for _, p := range paths {
		cur := root
		for _, seg := range strings.Split(p, "/") {
			child, ok := cur.children[seg]
			if !ok {
				child = &treeNode{name: seg, children: map[string]*treeNode{}}
				cur.children[seg] = child
			}
			cur = child
		}
	}

	var b strings.Builder
	b.WriteString(root.name)
	b.WriteString("\n")
	writeTreeNode(&b, root, "")
	return b.String()
}

func writeTreeNode(b *strings.Builder, n *treeNode, prefix string) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(names)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(name)
		b.WriteString("\n")
		writeTreeNode(b, n.children[name], childPrefix)
	}
}
