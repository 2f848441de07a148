package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIncludeMatcher(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"basename pattern matches at root", []string{"*.mdx"}, "page.mdx", true},
		{"basename pattern matches nested", []string{"*.mdx"}, "docs/guide/page.mdx", true},
		{"basename pattern rejects other extension", []string{"*.mdx"}, "src/index.ts", false},
		{"named file matches anywhere", []string{"best-practices.mdx"}, "a/b/best-practices.mdx", true},
		{"named file rejects sibling", []string{"best-practices.mdx"}, "a/b/other.mdx", false},
		{"multiple patterns, second matches", []string{"*.tsx", "*.ts"}, "src/components/Button.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := newIncludeMatcher(tt.patterns)
			if got := matcher.Match(tt.path, false); got != tt.want {
				t.Errorf("Match(%q) = %t, want %t (patterns %v)", tt.path, got, tt.want, tt.patterns)
			}
		})
	}
}

func TestBuildDigest(t *testing.T) {
	repo := t.TempDir()
	mustMkdirAll(t, filepath.Join(repo, "docs", "sub"))
	mustMkdirAll(t, filepath.Join(repo, "src"))
	mustMkdirAll(t, filepath.Join(repo, ".git"))
	writeTestFile(t, filepath.Join(repo, "docs"), "a.mdx", "# Page A\n")
	writeTestFile(t, filepath.Join(repo, "docs", "sub"), "b.mdx", "# Page B\n")
	writeTestFile(t, filepath.Join(repo, "src"), "c.ts", "export const c = 1\n")
	writeTestFile(t, filepath.Join(repo, ".git"), "config", "[core]\n")

	digest, err := buildDigest(repo, []string{"*.mdx"})
	if err != nil {
		t.Fatalf("buildDigest failed: %v", err)
	}

	if digest.Files != 2 {
		t.Errorf("Files = %d, want 2", digest.Files)
	}
	for _, want := range []string{"File: docs/a.mdx", "File: docs/sub/b.mdx", "# Page A", "# Page B"} {
		if !strings.Contains(digest.Content, want) {
			t.Errorf("digest content missing %q", want)
		}
	}
	if strings.Contains(digest.Content, "c.ts") {
		t.Error("digest content includes unmatched file c.ts")
	}
	if strings.Contains(digest.Content, ".git") {
		t.Error("digest content includes .git entries")
	}
	if !strings.Contains(digest.Tree, "docs") {
		t.Errorf("digest tree missing docs directory:\n%s", digest.Tree)
	}
	if !strings.Contains(digest.Summary, "Files analyzed: 2") {
		t.Errorf("digest summary missing file count:\n%s", digest.Summary)
	}
}

func TestBuildDigestMissingRepo(t *testing.T) {
	if _, err := buildDigest(filepath.Join(t.TempDir(), "gone"), []string{"*.mdx"}); err == nil {
		t.Error("buildDigest on missing repo returned nil error")
	} else if !strings.Contains(err.Error(), "repository not found") {
		t.Errorf("error = %q, want repository-not-found message", err)
	}
}

func TestWriteDigest(t *testing.T) {
	digest := Digest{
		Summary: "Repository: demo\nFiles analyzed: 1\n",
		Tree:    "demo\n└── a.mdx\n",
		Content: "================================================\nFile: a.mdx\n================================================\n# A\n\n",
		Files:   1,
	}

	out := filepath.Join(t.TempDir(), "nested", "dir", "demo.txt")
	if err := WriteDigest(digest, out); err != nil {
		t.Fatalf("WriteDigest failed: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("digest file not written: %v", err)
	}
	text := string(raw)
	if !strings.HasPrefix(text, digest.Summary) {
		t.Error("digest file does not start with the summary")
	}
	for _, want := range []string{digest.Tree, "File: a.mdx"} {
		if !strings.Contains(text, want) {
			t.Errorf("digest file missing %q", want)
		}
	}
}

func TestRenderDigestTree(t *testing.T) {
	got := renderDigestTree([]string{"a/b.txt", "a/c.txt", "d.txt"}, "repo")
	want := strings.Join([]string{
		"repo",
		"├── a",
		"│   ├── b.txt",
		"│   └── c.txt",
		"└── d.txt",
		"",
	}, "\n")
	if got != want {
		t.Errorf("renderDigestTree mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRepositoryCatalog(t *testing.T) {
	if len(repositories) == 0 {
		t.Fatal("repository catalog is empty")
	}
	seen := map[string]bool{}
	for _, repo := range repositories {
		if repo.Name == "" || repo.URL == "" {
			t.Errorf("catalog entry missing name or URL: %+v", repo)
		}
		if len(repo.Options) == 0 {
			t.Errorf("repository %s has no ingest options", repo.Name)
		}
		for _, opt := range repo.Options {
			if len(opt.Patterns) == 0 || opt.Subdir == "" {
				t.Errorf("option %q of %s is incomplete", opt.Name, repo.Name)
			}
			if seen[opt.Subdir] {
				t.Errorf("duplicate output subdir %q", opt.Subdir)
			}
			seen[opt.Subdir] = true
		}
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}
