package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/schollz/progressbar/v3"
)

// interactiveModels is the model list offered by the guided shell.
var interactiveModels = []string{
	"gpt-3.5-turbo",
	"gpt-4",
	"text-davinci-003",
	"text-davinci-002",
	"text-embedding-ada-002",
}

// runInteractive drives the guided token-counting shell: pick a model, pick
// what to count, then loop on prompts until the user is done.
func runInteractive(out io.Writer) error {
	fmt.Fprintln(out, "Interactive Token Counter")
	fmt.Fprintln(out, "This tool will help you count tokens in text, files, or directories.")

	idx, err := fuzzyfinder.Find(interactiveModels, func(i int) string {
		return interactiveModels[i]
	})
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return err
	}

	counter, err := NewTokenCounter(interactiveModels[idx])
	if err != nil {
		return err
	}

	actions := []string{
		"Count tokens in a text string",
		"Count tokens in a file",
		"Count tokens in a directory",
	}
	action, err := fuzzyfinder.Find(actions, func(i int) string { return actions[i] })
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return err
	}

	in := bufio.NewReader(os.Stdin)
	switch action {
	case 0:
		return interactiveText(counter, in, out)
	case 1:
		return interactiveFile(counter, in, out)
	default:
		return interactiveDir(counter, in, out)
	}
}

func promptLine(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptYesNo(in *bufio.Reader, out io.Writer, label string) bool {
	ans, err := promptLine(in, out, label)
	if err != nil {
		return false
	}
	ans = strings.ToLower(ans)
	return ans == "y" || ans == "yes"
}

func interactiveText(counter *TokenCounter, in *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, "\nCount tokens in a text string")
	for {
		text, err := promptLine(in, out, "\nEnter the text (or type 'exit' to quit): ")
		if err != nil {
			return nil
		}
		if strings.EqualFold(text, "exit") {
			return nil
		}
		if text == "" {
			fmt.Fprintln(out, "No text entered. Please try again.")
			continue
		}

		fmt.Fprintln(out, "\nResults:")
		fmt.Fprintf(out, "Text length: %d characters\n", utf8.RuneCountInString(text))
		fmt.Fprintf(out, "Token count: %d tokens\n", counter.CountText(text))

		if !promptYesNo(in, out, "\nDo you want to count another text? (y/n): ") {
			return nil
		}
	}
}

func interactiveFile(counter *TokenCounter, in *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, "\nCount tokens in a file")
	for {
		path, err := promptLine(in, out, "\nEnter the path to the file (or type 'exit' to quit): ")
		if err != nil {
			return nil
		}
		if strings.EqualFold(path, "exit") {
			return nil
		}
		if path == "" {
			fmt.Fprintln(out, "No file path entered. Please try again.")
			continue
		}

		info, statErr := os.Stat(path)
		if statErr != nil {
			fmt.Fprintln(out, "File not found. Please check the path and try again.")
			continue
		}
		if info.IsDir() {
			fmt.Fprintln(out, "The path does not point to a file. Please try again.")
			continue
		}
		if classifyFile(path) == StrategyUnsupported {
			fmt.Fprintf(out, "Warning: file extension %s is not supported.\n", filepath.Ext(path))
			if !promptYesNo(in, out, "Do you want to proceed anyway? (y/n): ") {
				continue
			}
		}

		result, err := counter.CountFile(path)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		} else {
			fmt.Fprintln(out, "\nResults:")
			fmt.Fprint(out, renderResult(result))
			offerSave([]FileResult{result}, in, out)
		}

		if !promptYesNo(in, out, "\nDo you want to count another file? (y/n): ") {
			return nil
		}
	}
}

func interactiveDir(counter *TokenCounter, in *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, "\nCount tokens in a directory")
	for {
		path, err := promptLine(in, out, "\nEnter the path to the directory (or type 'exit' to quit): ")
		if err != nil {
			return nil
		}
		if strings.EqualFold(path, "exit") {
			return nil
		}
		if path == "" {
			fmt.Fprintln(out, "No directory path entered. Please try again.")
			continue
		}

		info, statErr := os.Stat(path)
		if statErr != nil {
			fmt.Fprintln(out, "Directory not found. Please check the path and try again.")
			continue
		}
		if !info.IsDir() {
			fmt.Fprintln(out, "The path does not point to a directory. Please try again.")
			continue
		}

		extInput, err := promptLine(in, out, "\nEnter file extensions to process (comma separated, e.g. txt,json) or press Enter for all supported: ")
		if err != nil {
			return nil
		}
		var extensions []string
		if extInput != "" {
			extensions = strings.Split(extInput, ",")
		}

		recursive := true
		if ans, err := promptLine(in, out, "Process subdirectories recursively? (y/n, default: y): "); err == nil {
			recursive = !strings.EqualFold(ans, "n")
		}

		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Counting tokens"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
		results, err := counter.CountDir(path, WalkOptions{
			Extensions: extensions,
			Recursive:  recursive,
			OnFile:     func(string) { _ = bar.Add(1) },
		})
		_ = bar.Finish()
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		fmt.Fprintln(out, "\nResults:")
		fmt.Fprint(out, renderSummary(results, counter.Model))

		showDetails := true
		if len(results) > 20 {
			showDetails = promptYesNo(in, out, "\nShow detailed results for all files? (y/n): ")
		}
		if showDetails {
			fmt.Fprintln(out, "\nDetailed results:")
			fmt.Fprint(out, renderDetails(results))
		}

		offerSave(results, in, out)

		if !promptYesNo(in, out, "\nDo you want to count another directory? (y/n): ") {
			return nil
		}
	}
}

// offerSave prompts for an output path and persists results when confirmed.
// A path with no extension gets .json appended.
func offerSave(results []FileResult, in *bufio.Reader, out io.Writer) {
	if !promptYesNo(in, out, "\nDo you want to save the results to a file? (y/n): ") {
		return
	}
	path, err := promptLine(in, out, "Enter the output file path (e.g. results.json): ")
	if err != nil || path == "" {
		return
	}
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	if err := SaveResults(results, path); err != nil {
		fmt.Fprintf(out, "Error saving results: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Results saved to: %s\n", path)

	if promptYesNo(in, out, "Copy the summary to the clipboard? (y/n): ") {
		if err := clipboard.WriteAll(renderDetails(results)); err != nil {
			fmt.Fprintf(out, "Error writing to clipboard: %v\n", err)
		} else {
			fmt.Fprintln(out, "Summary copied to clipboard.")
		}
	}
}

// IngestConfig carries the directories the ingest flow works in.
type IngestConfig struct {
	CloneDir string
	DataDir  string
}

// runIngest drives the interactive ingest flow: pick a repository from the
// catalog, make sure a local clone exists, pick what to extract, and write
// the digest.
func runIngest(cfg IngestConfig, out io.Writer) error {
	fmt.Fprintln(out, "Data Ingest Tool")
	fmt.Fprintln(out, "This tool helps you ingest data from VTEX repositories.")

	repoIdx, err := fuzzyfinder.Find(repositories, func(i int) string {
		return fmt.Sprintf("%s - %s", repositories[i].Name, repositories[i].Description)
	})
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			fmt.Fprintln(out, "Ingest process canceled.")
			return nil
		}
		return err
	}
	repo := repositories[repoIdx]
	fmt.Fprintf(out, "Selected: %s\n", repo.Name)

	in := bufio.NewReader(os.Stdin)
	repoPath, err := ensureRepository(repo, cfg.CloneDir, in, out)
	if err != nil {
		return err
	}
	if repoPath == "" {
		fmt.Fprintln(out, "Ingest process canceled.")
		return nil
	}

	optIdx, err := fuzzyfinder.Find(repo.Options, func(i int) string {
		return repo.Options[i].Name
	})
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			fmt.Fprintln(out, "Ingest process canceled.")
			return nil
		}
		return err
	}
	opt := repo.Options[optIdx]

	fmt.Fprintf(out, "Ingesting %s %s...\n", repo.Name, opt.Name)
	digest, err := buildDigest(repoPath, opt.Patterns)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", opt.Name, err)
	}

	outputPath := filepath.Join(cfg.DataDir, opt.Subdir, opt.Subdir+".txt")
	if err := WriteDigest(digest, outputPath); err != nil {
		return fmt.Errorf("failed to write digest: %w", err)
	}

	counter, err := NewTokenCounter(defaultModel)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Successfully ingested %s!\n", opt.Name)
	fmt.Fprint(out, digest.Summary)
	fmt.Fprintf(out, "Content length: %d characters (~%d tokens)\n", utf8.RuneCountInString(digest.Content), counter.CountText(digest.Content))
	fmt.Fprintf(out, "Output written to: %s\n", outputPath)
	return nil
}

// ensureRepository returns a local path for repo, cloning it under cloneDir
// or accepting a user-supplied path. Returns "" when the user backs out.
func ensureRepository(repo Repository, cloneDir string, in *bufio.Reader, out io.Writer) (string, error) {
	repoPath := filepath.Join(cloneDir, repo.Name)
	if info, err := os.Stat(repoPath); err == nil && info.IsDir() {
		fmt.Fprintf(out, "Found %s repository at: %s\n", repo.Name, repoPath)
		return repoPath, nil
	}

	fmt.Fprintf(out, "%s repository not found at: %s\n", repo.Name, repoPath)
	if promptYesNo(in, out, "Would you like to clone the repository now? (y/n): ") {
		fmt.Fprintf(out, "Cloning %s to %s...\n", repo.Name, repoPath)
		if err := cloneRepository(repo.URL, repoPath, out); err != nil {
			return "", err
		}
		fmt.Fprintln(out, "Successfully cloned repository!")
		return repoPath, nil
	}

	custom, err := promptLine(in, out, fmt.Sprintf("Enter the path to an existing %s repository: ", repo.Name))
	if err != nil || custom == "" {
		return "", nil
	}
	if info, statErr := os.Stat(custom); statErr != nil || !info.IsDir() {
		return "", fmt.Errorf("invalid path, repository not found: %s", custom)
	}
	fmt.Fprintf(out, "Using repository at: %s\n", custom)
	return custom, nil
}
