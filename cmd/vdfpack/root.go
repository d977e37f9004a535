// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vdfpack/vdfpack/internal/config"
	"github.com/vdfpack/vdfpack/internal/issue"
	"github.com/vdfpack/vdfpack/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the flag state of one root command instance.
type rootFlagValues struct {
	verbose    bool
	configPath string
	watch      bool
	baseDir    string
	outputFile string
	comment    string
}

// NewRootCommand creates the vdfpack command bound to app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	cmd := &cobra.Command{
		Use:   "vdfpack [flags] <script|directory>",
		Short: "Pack a directory into a VDFS volume",
		Long: TitleStyle.Render("vdfpack") + SubtitleStyle.Render(" - Pack a directory into a VDFS volume") + `

A directory input is packed completely and written to DEFAULT.VDF inside it,
unless -o names another output. A file input is read as a build script
(YAML, or TOML for *.toml) naming the base directory, the output file, the
comment and the include globs; -b, -o and -c override the script.

` + SubtitleStyle.Render("Examples:") + `
  vdfpack ./_work/data                 Pack a directory to ./_work/data/DEFAULT.VDF
  vdfpack -o Mod.vdf ./_work/data      Pack a directory to Mod.vdf
  vdfpack mod.yml                      Build the volume described by mod.yml
  vdfpack -c "v1.2" -w mod.yml         Override the comment and rebuild on changes`,
		Args: exactlyOneInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, app, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.baseDir, "base-directory", "b", "", "base directory override (script mode)")
	f.StringVarP(&flags.outputFile, "output-file", "o", "", "output file override")
	f.StringVarP(&flags.comment, "comment", "c", "", "volume comment (at most 256 bytes)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and print the volume report")
	f.StringVar(&flags.configPath, "config", "", "config file (default is <user config dir>/vdfpack/config.cue)")
	f.BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever the input changes")

	_ = cmd.MarkFlagDirname("base-directory")
	_ = cmd.MarkFlagFilename("output-file", "vdf", "VDF")
	_ = cmd.MarkFlagFilename("config", "cue")

	return cmd
}

// exactlyOneInput rejects a missing or extra positional argument with a usage error.
func exactlyOneInput(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 1:
		if args[0] == "" {
			return usageError(errors.New("please provide a build script or a base directory"))
		}
		return nil
	case 0:
		return usageError(errors.New("please provide a build script or a base directory"))
	default:
		return usageError(fmt.Errorf("expected one input, got %d", len(args)))
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits with its status. Called by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitCodeOf(err).Int())
	}
}

// exitCodeOf maps a command error to the process exit code.
func exitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}

// runRoot loads configuration and runs a single build or the watch loop.
func runRoot(cmd *cobra.Command, app *App, flags *rootFlagValues, input string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return app.fail(cmd, err, flags.verbose)
	}
	logger := newLogger(app.stderr, cfg, flags.verbose)

	req := buildRequest{
		Input:      input,
		BaseDir:    flags.baseDir,
		OutputFile: flags.outputFile,
		Verbose:    flags.verbose,
	}
	if cmd.Flags().Changed("comment") {
		req.Comment = &flags.comment
	}

	if flags.watch {
		err = app.watch(ctx, req, cfg, logger)
	} else {
		_, err = app.build(ctx, req, cfg, logger)
	}
	if err != nil {
		return app.fail(cmd, err, flags.verbose)
	}
	return nil
}

// fail prints err with its suggestions and, in verbose mode, the linked
// issue page. Cobra's own error printing is silenced.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	if verbose {
		if is := issue.IssueOf(err); is != nil {
			if rendered, renderErr := is.Render("auto"); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// formatErrorForDisplay uses ActionableError.Format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
