// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vdfpack/vdfpack/internal/config"
)

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *log.Logger {
	level, err := log.ParseLevel(cfg.Log.Level.String())
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		Level:           level,
		ReportTimestamp: cfg.Log.Timestamps,
	})
}
