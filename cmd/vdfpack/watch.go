// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vdfpack/vdfpack/internal/config"
	"github.com/vdfpack/vdfpack/internal/watch"
	"github.com/vdfpack/vdfpack/pkg/script"
)

// watch builds once, then rebuilds whenever a file under the base directory
// changes, until ctx is cancelled. Build failures are reported and watching
// continues; resolution failures on the first build are returned.
func (a *App) watch(ctx context.Context, req buildRequest, cfg *config.Config, logger *log.Logger) error {
	plan, err := a.resolve(req, cfg, logger)
	if err != nil {
		return err
	}

	if _, err := a.build(ctx, req, cfg, logger); err != nil {
		fmt.Fprintf(a.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, req.Verbose))
	}

	w, err := watch.New(watch.Config{
		BaseDir:     plan.BaseDir,
		Patterns:    watchPatterns(plan),
		Ignore:      cfg.Watch.Ignore,
		IgnoreFiles: []string{plan.OutputFile},
		Debounce:    cfg.Watch.Debounce,
		Logger:      logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Info("change detected, rebuilding", "paths", len(changed))
			if _, err := a.build(ctx, req, cfg, logger); err != nil {
				fmt.Fprintf(a.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, req.Verbose))
			}
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	logger.Info("watching for changes (Ctrl+C to stop)", "base", plan.BaseDir)
	return w.Run(ctx)
}

// watchPatterns limits script-mode rebuilds to paths the include globs can
// select. Directory mode watches everything.
func watchPatterns(plan *buildPlan) []string {
	if plan.mode != modeScript {
		return nil
	}
	patterns := make([]string, 0, len(plan.Patterns))
	for _, p := range plan.Patterns {
		if m := script.MatchPattern(p); m != "" {
			patterns = append(patterns, m)
		}
	}
	return patterns
}
