/*
Package commands implements the CLI command structure for ewc. The root
command counts its arguments; the version subcommand prints build data.
*/
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/sonemaro/ewc/cmd/ewc/app"
	"github.com/sonemaro/ewc/internal/config"
	"github.com/sonemaro/ewc/internal/version"
	"github.com/spf13/cobra"
)

// Options holds the process streams and receives the exit status of the
// counting run
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// AppOptions are passed to app.New, mainly for tests
	AppOptions []app.Option

	ExitCode int
}

// DefaultOptions uses the real process streams
func DefaultOptions() *Options {
	return &Options{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// NewRootCommand creates the root command for the application
func NewRootCommand(opts *Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ewc [flags] [FILE|DIR|-]...",
		Short: "Enhanced word count, a modern alternative to wc",
		Long: `ewc counts lines, words, bytes and the longest line of files, directories
and standard input.

Directories are walked recursively. Hidden entries are skipped unless --all
is given, and --include/--exclude globs are matched against paths relative to
each directory argument. With no arguments, or with "-", standard input is
read.`,
		Example: `  ewc notes.txt
  ewc -l src/ README.md
  ewc --exclude vendor --include '**/*.go' .
  cat notes.txt | ewc -w
  ewc --json -L src/`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, args, opts)
		},
	}

	config.RegisterFlags(rootCmd.Flags())
	rootCmd.SetVersionTemplate(version.Name + " {{.Version}}\n")
	rootCmd.SetIn(opts.Stdin)
	rootCmd.SetOut(opts.Stdout)
	rootCmd.SetErr(opts.Stderr)

	rootCmd.AddCommand(newVersionCommand(opts))

	return rootCmd
}

func runCount(cmd *cobra.Command, args []string, opts *Options) error {
	cfg, err := config.Load(cmd.Flags(), args)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appOpts := append([]app.Option{
		app.WithIO(opts.Stdin, opts.Stdout, opts.Stderr),
	}, opts.AppOptions...)

	application := app.New(cfg, appOpts...)
	defer application.Shutdown()

	opts.ExitCode = application.Run()
	return nil
}

// Execute runs the root command against os.Args and returns the exit status
func Execute() int {
	opts := DefaultOptions()
	cmd := NewRootCommand(opts)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		return app.ExitFailure
	}
	return opts.ExitCode
}
