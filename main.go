package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set via ldflags at build time.
var version = "dev"

var (
	flagModel         string
	flagTokenizerFile string
)

var rootCmd = &cobra.Command{
	Use:   "counttokens",
	Short: "Count tokens in text, files, and directories using tiktoken",
	Long: `CountTokens helps you analyze the number of tokens in text strings,
files, or entire directories, using the same encodings as OpenAI models.

It also includes an interactive ingest tool that clones curated VTEX
repositories and extracts their documentation into a single digest file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", defaultModel, "Model to use for token counting (e.g. gpt-3.5-turbo, gpt-4)")
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	rootCmd.PersistentFlags().StringVar(&flagTokenizerFile, "tokenizer-file", "", "Path to a local HuggingFace tokenizer.json (overrides --model)")
	viper.BindPFlag("tokenizer_file", rootCmd.PersistentFlags().Lookup("tokenizer-file"))

	rootCmd.AddCommand(
		newTextCmd(),
		newFileCmd(),
		newDirCmd(),
		newWebCmd(),
		newInteractiveCmd(),
		newIngestCmd(),
		newVersionCmd(),
	)
}

// initConfig reads the config file and COUNTTOKENS_* environment variables.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(filepath.Join(home, ".config", "counttokens"))
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("COUNTTOKENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("model", defaultModel)
	viper.SetDefault("clone_dir", filepath.Join(home, "Documents"))
	viper.SetDefault("data_dir", filepath.Join(home, "Data"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// newCounter builds the session's TokenCounter from flags and config.
func newCounter() (*TokenCounter, error) {
	if file := viper.GetString("tokenizer_file"); file != "" {
		return NewTokenCounterFromFile(file)
	}
	return NewTokenCounter(viper.GetString("model"))
}

func newTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text TEXT",
		Short: "Count tokens in a provided text string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counter, err := newCounter()
			if err != nil {
				return err
			}
			text := args[0]
			preview := text
			if utf8.RuneCountInString(preview) > 50 {
				preview = string([]rune(preview)[:50]) + "..."
			}
			fmt.Printf("Token Count (%s)\n", counter.Model)
			fmt.Printf("Text preview: %s\n", preview)
			fmt.Printf("Characters: %d\n", utf8.RuneCountInString(text))
			fmt.Printf("Tokens: %d\n", counter.CountText(text))
			return nil
		},
	}
}

func newFileCmd() *cobra.Command {
	var output string
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "file PATH",
		Short: "Count tokens in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counter, err := newCounter()
			if err != nil {
				return err
			}
			result, err := counter.CountFile(args[0])
			if err != nil {
				return err
			}

			rendered := renderResult(result)
			fmt.Print(rendered)

			if output != "" {
				if err := SaveResults([]FileResult{result}, output); err != nil {
					return err
				}
				fmt.Printf("Result saved to: %s\n", output)
			}
			if toClipboard {
				if err := clipboard.WriteAll(rendered); err != nil {
					fmt.Fprintf(os.Stderr, "Error writing to clipboard: %v\n", err)
				} else {
					fmt.Println("Result copied to clipboard.")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Path to save output as JSON or CSV")
	cmd.Flags().BoolVarP(&toClipboard, "clipboard", "c", false, "Copy the result to the clipboard")
	return cmd
}

func newDirCmd() *cobra.Command {
	var extensions []string
	var recursive bool
	var output string
	var pdfOutput string
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "dir PATH",
		Short: "Count tokens in all supported files within a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counter, err := newCounter()
			if err != nil {
				return err
			}

			fmt.Printf("Counting tokens in directory: %s\n", args[0])
			fmt.Printf("Model: %s\n", counter.Model)
			if len(extensions) > 0 {
				fmt.Printf("Extensions: %s\n", strings.Join(extensions, ", "))
			} else {
				fmt.Println("Extensions: all supported")
			}
			fmt.Printf("Recursive: %t\n", recursive)

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Counting tokens"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
			results, err := counter.CountDir(args[0], WalkOptions{
				Extensions: extensions,
				Recursive:  recursive,
				OnFile:     func(string) { _ = bar.Add(1) },
			})
			_ = bar.Finish()
			if err != nil {
				return err
			}

			summary := renderSummary(results, counter.Model)
			fmt.Print(summary)
			if len(results) <= 20 {
				fmt.Println()
				fmt.Print(renderDetails(results))
			}

			if output != "" {
				if err := SaveResults(results, output); err != nil {
					return err
				}
				fmt.Printf("Results saved to: %s\n", output)
			}
			if pdfOutput != "" {
				if err := writeResultsPDF(results, counter.Model, pdfOutput); err != nil {
					return err
				}
				fmt.Printf("PDF report saved to: %s\n", pdfOutput)
			}
			if toClipboard {
				if err := clipboard.WriteAll(summary + "\n" + renderDetails(results)); err != nil {
					fmt.Fprintf(os.Stderr, "Error writing to clipboard: %v\n", err)
				} else {
					fmt.Println("Results copied to clipboard.")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&extensions, "extensions", "e", nil, "File extensions to process (e.g. -e txt -e json)")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "Search subdirectories recursively")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Path to save output as JSON or CSV")
	cmd.Flags().StringVar(&pdfOutput, "pdf", "", "Path to save a PDF report")
	cmd.Flags().BoolVarP(&toClipboard, "clipboard", "c", false, "Copy the results to the clipboard")
	return cmd
}

func newWebCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "web URL",
		Short: "Count tokens in a web page (converted to Markdown)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counter, err := newCounter()
			if err != nil {
				return err
			}
			result, title, err := counter.CountWebPage(args[0])
			if err != nil {
				return err
			}
			if title != "" {
				fmt.Printf("Title: %s\n", title)
			}
			fmt.Print(renderResult(result))
			return nil
		},
	}
}

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Count tokens through a guided menu-based interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(os.Stdout)
		},
	}
}

func newIngestCmd() *cobra.Command {
	var cloneDir, dataDir string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Interactively clone and extract documentation from curated repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := IngestConfig{
				CloneDir: viper.GetString("clone_dir"),
				DataDir:  viper.GetString("data_dir"),
			}
			return runIngest(cfg, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&cloneDir, "clone-dir", "", "Directory to clone repositories into")
	viper.BindPFlag("clone_dir", cmd.Flags().Lookup("clone-dir"))
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory to write ingested digests into")
	viper.BindPFlag("data_dir", cmd.Flags().Lookup("data-dir"))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("counttokens %s\n", version)
		},
	}
}
