// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LogLevelDebug logs tree decisions and catalog summaries.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs one line per build.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs skipped entries and empty selections.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"
	// LogLevelFatal silences everything but fatal errors.
	LogLevelFatal LogLevel = "fatal"

	// DefaultOutputName is written inside the input directory in directory mode.
	DefaultOutputName = "DEFAULT.VDF"
	// DefaultDebounce is the quiet period before a watch rebuild.
	DefaultDebounce = 500 * time.Millisecond

	maxCommentBytes = 256
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidOutputName is returned when output.default_name is empty or contains a separator.
	ErrInvalidOutputName = errors.New("invalid default output name")
	// ErrInvalidDebounce is returned when watch.debounce is not positive.
	ErrInvalidDebounce = errors.New("invalid watch debounce")
	// ErrCommentTooLong is returned when the default comment exceeds 256 bytes.
	ErrCommentTooLong = errors.New("default comment too long")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is a charmbracelet/log level name.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every field error of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the application configuration.
	Config struct {
		// Output configures directory-mode output naming.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// Comment is the volume comment used when neither script nor flag sets one.
		Comment string `json:"comment" mapstructure:"comment"`
		// Log configures the logger.
		Log LogConfig `json:"log" mapstructure:"log"`
		// Watch configures watch mode.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// OutputConfig configures output naming.
	OutputConfig struct {
		DefaultName string `json:"default_name" mapstructure:"default_name"`
	}

	// LogConfig configures the logger.
	LogConfig struct {
		Level      LogLevel `json:"level" mapstructure:"level"`
		Timestamps bool     `json:"timestamps" mapstructure:"timestamps"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		// Debounce is the quiet period after the last change before rebuilding.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore holds doublestar patterns, relative to the watched directory, that never trigger a rebuild.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}
)

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error, fatal)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error {
	return ErrInvalidLogLevel
}

// String returns the level name.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is a known level,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the sentinel and each field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid checks the constraints the CUE schema cannot see, such as values
// that arrive through environment variables.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	name := c.Output.DefaultName
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidOutputName, name))
	}
	if len(c.Comment) > maxCommentBytes {
		errs = append(errs, fmt.Errorf("%w: %d bytes, limit %d", ErrCommentTooLong, len(c.Comment), maxCommentBytes))
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Watch.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidDebounce, c.Watch.Debounce))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultName: DefaultOutputName,
		},
		Comment: "",
		Log: LogConfig{
			Level:      LogLevelInfo,
			Timestamps: false,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   []string{},
		},
	}
}
