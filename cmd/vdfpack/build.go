// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/opencontainers/go-digest"

	"github.com/vdfpack/vdfpack/internal/config"
	"github.com/vdfpack/vdfpack/internal/issue"
	"github.com/vdfpack/vdfpack/pkg/script"
	"github.com/vdfpack/vdfpack/pkg/vdfs"
)

const (
	modeDirectory buildMode = iota
	modeScript
)

type (
	buildMode int

	// buildRequest is the command-line input of one build.
	buildRequest struct {
		Input      string
		BaseDir    string
		OutputFile string
		// Comment is nil when -c was not given.
		Comment *string
		Verbose bool
	}

	// buildPlan is a resolved build.
	buildPlan struct {
		mode buildMode
		script.Plan
	}

	buildResult struct {
		Volume *vdfs.Volume
		Output string
		Digest digest.Digest
	}
)

func (m buildMode) String() string {
	if m == modeScript {
		return "script"
	}
	return "directory"
}

// resolve classifies the input and applies overrides. A directory is packed
// whole into <dir>/<default name> unless -o is given; -b is ignored there.
// A file is loaded as a build script.
func (a *App) resolve(req buildRequest, cfg *config.Config, logger *log.Logger) (*buildPlan, error) {
	info, err := os.Stat(req.Input)
	if err != nil {
		return nil, usageError(issue.NewErrorContext().
			WithOperation("open input").
			WithResource(req.Input).
			WithSuggestion("Pass an existing directory or build script").
			WithIssue(issue.InputNotFoundId).
			Wrap(err).
			BuildError())
	}

	comment := cfg.Comment

	if info.IsDir() {
		if req.BaseDir != "" {
			logger.Warn("ignoring base directory override in directory mode", "base", req.BaseDir)
		}
		output := req.OutputFile
		if output == "" {
			output = filepath.Join(req.Input, cfg.Output.DefaultName)
		}
		if req.Comment != nil {
			comment = *req.Comment
		}
		return &buildPlan{
			mode: modeDirectory,
			Plan: script.Plan{BaseDir: req.Input, OutputFile: output, Comment: comment},
		}, nil
	}

	if !info.Mode().IsRegular() {
		return nil, usageError(issue.NewErrorContext().
			WithOperation("open input").
			WithResource(req.Input).
			WithSuggestion("Pass a directory or a regular script file").
			WithIssue(issue.InputNotFoundId).
			Wrap(errors.New("not a directory or regular file")).
			BuildError())
	}

	s, err := script.Load(req.Input)
	if err != nil {
		id := issue.FileReadFailedId
		if errors.Is(err, script.ErrParse) {
			id = issue.ScriptParseErrorId
		}
		return nil, issue.NewErrorContext().
			WithOperation("read build script").
			WithResource(req.Input).
			WithIssue(id).
			Wrap(err).
			BuildError()
	}
	if s.Comment == "" && req.Comment == nil {
		s.Comment = comment
	}

	plan, err := s.Resolve(script.Overrides{
		BaseDir:    req.BaseDir,
		OutputFile: req.OutputFile,
		Comment:    req.Comment,
	})
	if err != nil {
		return nil, resolveError(req.Input, err)
	}
	if len(plan.Patterns) == 0 {
		logger.Warn("script has no include globs, the volume will be empty", "script", req.Input)
	}
	return &buildPlan{mode: modeScript, Plan: *plan}, nil
}

func resolveError(scriptPath string, err error) error {
	ctx := issue.NewErrorContext().WithOperation("resolve build script").WithResource(scriptPath).Wrap(err)
	switch {
	case errors.Is(err, script.ErrMissingBaseDir):
		return usageError(ctx.WithIssue(issue.BaseDirMissingId).
			WithSuggestion("Set base_dir in the script or pass -b <dir>").
			BuildError())
	case errors.Is(err, script.ErrMissingOutputFile):
		return usageError(ctx.WithIssue(issue.OutputPathMissingId).
			WithSuggestion("Set file_path in the script or pass -o <file>").
			BuildError())
	case errors.Is(err, doublestar.ErrBadPattern):
		return ctx.WithIssue(issue.InvalidGlobId).BuildError()
	default:
		return ctx.BuildError()
	}
}

// build resolves, builds and writes one volume.
func (a *App) build(ctx context.Context, req buildRequest, cfg *config.Config, logger *log.Logger) (*buildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	plan, err := a.resolve(req, cfg, logger)
	if err != nil {
		return nil, err
	}

	treeOpts := []vdfs.TreeOption{
		vdfs.WithTreeLogger(logger),
		vdfs.WithExclude(plan.OutputFile),
	}
	if plan.mode == modeScript {
		treeOpts = append(treeOpts, vdfs.WithFilter(plan.Filter))
	}

	logger.Info("generating archive", "mode", plan.mode, "base", plan.BaseDir)
	vol, err := vdfs.FromDir(plan.BaseDir, treeOpts,
		vdfs.WithComment(plan.Comment),
		vdfs.WithClock(a.Clock),
		vdfs.WithLogger(logger),
	)
	if err != nil {
		return nil, volumeError(plan, err)
	}
	logger.Debug("archive generated", "elapsed", time.Since(start))

	writeStart := time.Now()
	logger.Info("writing archive", "output", plan.OutputFile)
	dgst, err := vol.WriteFile(plan.OutputFile)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("write volume").
			WithResource(plan.OutputFile).
			WithIssue(issue.WriteFailedId).
			Wrap(err).
			BuildError()
	}
	logger.Info("done", "elapsed", time.Since(start), "write", time.Since(writeStart), "digest", dgst)

	a.printSummary(vol, plan.OutputFile, dgst, req.Verbose)
	return &buildResult{Volume: vol, Output: plan.OutputFile, Digest: dgst}, nil
}

func volumeError(plan *buildPlan, err error) error {
	ctx := issue.NewErrorContext().WithOperation("build volume").WithResource(plan.BaseDir).Wrap(err)
	// ErrReadFile wraps the *PathError of the file, so it is tested first.
	switch {
	case errors.Is(err, vdfs.ErrReadFile):
		return ctx.WithIssue(issue.FileReadFailedId).BuildError()
	case errors.Is(err, os.ErrNotExist), errors.Is(err, vdfs.ErrRootNotDirectory):
		return usageError(ctx.WithIssue(issue.InputNotFoundId).
			WithSuggestion("Check the base directory path").
			BuildError())
	case errors.Is(err, vdfs.ErrNameTooLong), errors.Is(err, vdfs.ErrCommentTooLong), errors.Is(err, vdfs.ErrSizeOverflow):
		return ctx.WithIssue(issue.VolumeLimitExceededId).BuildError()
	default:
		return ctx.BuildError()
	}
}

// printSummary writes the build summary to stdout, and the full volume
// report when verbose.
func (a *App) printSummary(vol *vdfs.Volume, output string, dgst digest.Digest, verbose bool) {
	fmt.Fprintf(a.stdout, "%s %s\n", SuccessStyle.Render("✓ wrote"), PathStyle.Render(output))
	fmt.Fprintf(a.stdout, "  %s%d (%d files)\n", summaryLabelStyle.Render("entries"), vol.Header.NumFiles, vol.Header.NumEntries)
	fmt.Fprintf(a.stdout, "  %s%d bytes of data\n", summaryLabelStyle.Render("size"), vol.Header.Size)
	fmt.Fprintf(a.stdout, "  %s%s\n", summaryLabelStyle.Render("digest"), dgst)
	if verbose {
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, VerboseStyle.Render(vol.String()))
	}
}
