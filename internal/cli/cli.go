package cli

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/patchgraph/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const longHelp = `
Patchgraph - Converts Pd-style patch descriptions into a flat DSP graph.

Subpatches are inlined, implicit signal summing is replaced by explicit
mixer~ nodes, and the resulting graph is written as JSON or YAML.

Arguments:
  PATCH_PATH
    Path to a single .hcl file or a directory containing .hcl files.
    May be repeated, and combined with --patch.`

// flags holds the raw flag values before validation.
type flags struct {
	patches     []string
	manifests   string
	output      string
	format      string
	logFormat   string
	logLevel    string
	metricsFile string
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var f flags
	var config *app.Config
	ran := false

	cmd := &cobra.Command{
		Use:           "patchgraph [flags] [PATCH_PATH...]",
		Short:         "Convert patch descriptions into a flat DSP graph",
		Long:          longHelp,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			ran = true
			paths := append(f.patches, positional...)
			slog.Debug("Patch paths determined.", "paths", paths)

			if len(paths) == 0 {
				slog.Debug("No patch path provided, printing usage and exiting.")
				return cmd.Help()
			}

			var err error
			config, err = app.NewConfig(app.Config{
				PatchPaths:    paths,
				ManifestsPath: f.manifests,
				OutputPath:    f.output,
				Format:        strings.ToLower(f.format),
				LogFormat:     strings.ToLower(f.logFormat),
				LogLevel:      strings.ToLower(f.logLevel),
				MetricsFile:   f.metricsFile,
			})
			return err
		},
	}
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	fs := cmd.Flags()
	fs.StringSliceVarP(&f.patches, "patch", "p", nil, "Path to a patch file or directory. May be repeated.")
	fs.StringVar(&f.manifests, "manifests", "", "Path to node_type manifest files or a directory of them.")
	fs.StringVarP(&f.output, "output", "o", "", "Write the graph to this file instead of standard output.")
	fs.StringVarP(&f.format, "format", "f", "json", "Graph output format. Options: 'json' or 'yaml'.")
	fs.StringVar(&f.logFormat, "log-format", "json", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write conversion metrics in Prometheus text format to this file.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if !ran || config == nil {
		// Help was requested or no patch path was given.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// IsExitError reports whether err carries an exit code and returns it.
func IsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}
