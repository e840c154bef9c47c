// Package main provides the uloc CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/uloc/internal/config"
	"github.com/dshills/uloc/internal/logging"
	"github.com/dshills/uloc/internal/storage"
)

var (
	version   = "0.3.1"
	buildTime = "unknown"
)

// errFileErrors marks a run whose failures were already printed.
var errFileErrors = errors.New("one or more files could not be read")

// usageError is printed together with the command usage.
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(cmd *cobra.Command, err error) error {
	return &usageError{cmd: cmd, err: err}
}

// app carries the streams and settings shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v   *viper.Viper
	cfg *config.Config

	configFile string
	format     string // set by --format, --csv, --tsv and --json, last one wins
	separator  string // set by --fslash and --bslash, last one wins
	noHeader   bool
}

func newRootCmd(a *app) *cobra.Command {
	a.v = config.NewViper()

	root := &cobra.Command{
		Use:   "uloc [flags] <file|directory>...",
		Short: "Count unique lines of code",
		Long: `uloc counts the non-blank lines of every file under the given paths and how
many of them are unique, per file and across all files.

Directories are expanded breadth-first. Lines are compared after trimming
spaces, tabs and carriage returns from both ends.

Examples:
  uloc src/                  # Report every file under src
  uloc --csv --noheader .    # Machine-readable output
  uloc -all -name src lib    # Include dot-files, print names only
  uloc -- -odd-name.txt      # Paths after -- are never options

An argument naming an existing file or directory is scanned even when it
matches a command name; "uloc version" scans ./version if it exists.`,
		Version:           version,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runScan,
	}
	root.SetVersionTemplate("uloc version {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return newUsageError(cmd, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default .uloc.yaml in the working or home directory)")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("db", config.DefaultDBPath(), "Run history database")
	pf.StringVar(&a.format, "format", "", "Output format: text, csv, tsv or json")
	choiceVar(pf, &a.format, "csv", "csv", "Output comma separated values")
	choiceVar(pf, &a.format, "tsv", "tsv", "Output tab separated values")
	choiceVar(pf, &a.format, "json", "json", "Output JSON")
	pf.BoolVar(&a.noHeader, "noheader", false, "Don't output the header for csv/tsv formats")
	pf.Bool("name", false, "Use file name instead of full path for output")

	f := root.Flags()
	f.Bool("all", false, "Don't ignore names that start with a dot")
	choiceVar(f, &a.separator, "fslash", "/", "Use forward-slashes as directory separators")
	choiceVar(f, &a.separator, "bslash", `\`, "Use back-slashes as directory separators")
	f.StringSlice("exclude", nil, "Skip discovered entries matching a glob pattern (repeatable)")
	f.Bool("save", false, "Store the report in the run history")

	bindFlags(a.v, root)

	root.AddCommand(newServeCmd(a), newHistoryCmd(a), newVersionCmd(a))
	return root
}

// bindFlags ties viper keys to the flags that override them.
func bindFlags(v *viper.Viper, root *cobra.Command) {
	persistent := map[string]string{
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
		config.KeyDBPath:    "db",
		config.KeyName:      "name",
	}
	for key, name := range persistent {
		_ = v.BindPFlag(key, root.PersistentFlags().Lookup(name))
	}
	for _, key := range []string{config.KeyAll, config.KeyExclude, config.KeySave} {
		_ = v.BindPFlag(key, root.Flags().Lookup(key))
	}
}

// setup loads the configuration and installs the logger before any
// command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// Flags sharing one variable cannot be bound directly
	if a.format != "" {
		a.v.Set(config.KeyFormat, a.format)
	}
	if a.separator != "" {
		a.v.Set(config.KeySeparator, a.separator)
	}
	if cmd.Flags().Changed("noheader") {
		a.v.Set(config.KeyHeader, !a.noHeader)
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logging.InitWriter(a.stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		return newUsageError(cmd, err)
	}
	slog.Debug("configuration loaded",
		"config", a.v.ConfigFileUsed(),
		"format", cfg.Format,
		"all", cfg.All,
		"db", cfg.DBPath)
	return nil
}

// openStore opens the history database, creating its directory.
func openStore(dbPath string) (*storage.SQLiteStorage, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(protectPaths(root, normalizeArgs(args)))
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var uerr *usageError
	switch {
	case errors.Is(err, errFileErrors):
		// Already reported in the file error block
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "Error: %v\n\n", uerr.err)
		fmt.Fprint(stderr, uerr.cmd.UsageString())
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
