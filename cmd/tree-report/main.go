package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tree-report/internal/config"
	"tree-report/internal/logging"
	"tree-report/internal/progress"
	"tree-report/internal/report"
	"tree-report/internal/walker"
)

type options struct {
	output     string
	exclude    []string
	configPath string
	logFormat  string
	quiet      bool
	noProgress bool
}

var okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "tree-report [directory]",
		Short: "Print a directory tree with line counts for source and text files",
		Long: "tree-report walks a project directory and prints a box-drawing tree.\n" +
			"Directories are listed first, names compare case-insensitively, and every\n" +
			"recognized file (.py .txt .yaml .yml .xml .json .ui) shows its line count.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return run(root, opts, stdout, stderr)
		},
	}

	registerFlags(cmd.Flags(), opts)

	return cmd
}

func registerFlags(flags *pflag.FlagSet, opts *options) {
	flags.SortFlags = false
	flags.StringVarP(&opts.output, "output", "o", "", "Write the report to this file (truncated) instead of stdout")
	flags.StringArrayVarP(&opts.exclude, "exclude", "e", nil, "Directory name to ignore, repeatable; added to the built-in ignore set")
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultConfigFile, "YAML config file; a missing file means defaults")
	flags.StringVar(&opts.logFormat, "log-format", logging.FormatText, "Log format for warnings: text or json")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress warnings and the summary")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress counter")
}

func run(root string, opts *options, stdout, stderr io.Writer) error {
	logger, err := logging.New(stderr, opts.logFormat)
	if err != nil {
		return err
	}
	if opts.quiet {
		logger = logging.Discard{}
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("directory does not exist: %s", absRoot)
		}
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absRoot)
	}

	w := walker.New(walker.Options{
		Ignore:     cfg.IgnoreSet(opts.exclude),
		Extensions: cfg.ExtensionSet(),
	})

	outputPath := opts.output
	if outputPath == "" {
		outputPath = cfg.Output
	}

	if outputPath == "" {
		_, err := report.NewWriter(logger).Write(stdout, absRoot, w.Walk(absRoot))
		return err
	}

	return writeToFile(outputPath, absRoot, w, logger, opts, stderr)
}

func writeToFile(path, root string, w *walker.Walker, logger logging.Logger, opts *options, stderr io.Writer) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	showProgress := !opts.quiet && !opts.noProgress && isTerminal(stderr)
	bar := progress.New(stderr, showProgress)

	stats, err := report.NewWriter(logger, bar).Write(file, root, w.Walk(root))
	bar.Finish()
	if err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Fprintf(stderr, "%s\n", okStyle.Render("✓ Report written"))
		fmt.Fprintf(stderr, "  Output: %s\n", path)
		fmt.Fprintf(stderr, "  Directories: %d\n", stats.Dirs)
		fmt.Fprintf(stderr, "  Files: %d (%d lines)\n", stats.Files, stats.Lines)
		fmt.Fprintf(stderr, "  Checksum: %s\n", stats.ChecksumHex())
		if stats.Inaccessible > 0 || stats.Unreadable > 0 {
			fmt.Fprintf(stderr, "\n⚠ %d directories could not be listed, %d files could not be read\n",
				stats.Inaccessible, stats.Unreadable)
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && progress.IsTerminal(f)
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
