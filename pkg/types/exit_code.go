// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess reports a written volume.
	ExitSuccess ExitCode = 0
	// ExitFailure reports a build or write failure.
	ExitFailure ExitCode = 1
	// ExitUsage reports bad command-line input; nothing was written.
	ExitUsage ExitCode = 2
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code in the POSIX range 0-255.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports a zero exit code.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// Int returns the code for os.Exit, mapping out-of-range values to ExitFailure.
func (c ExitCode) Int() int {
	if c.Validate() != nil {
		return int(ExitFailure)
	}
	return int(c)
}

// String returns the decimal representation.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
