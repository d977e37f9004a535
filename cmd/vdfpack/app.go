// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/vdfpack/vdfpack/internal/config"
	"github.com/vdfpack/vdfpack/pkg/vdfs"
)

type (
	// App is the composition root of the CLI. Command handlers receive it and
	// reach configuration, time and output only through it.
	App struct {
		Config ConfigProvider
		Clock  vdfs.Clock
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config ConfigProvider
		Clock  vdfs.Clock
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Clock == nil {
		deps.Clock = vdfs.SystemClock{}
	}

	return &App{
		Config: deps.Config,
		Clock:  deps.Clock,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}
