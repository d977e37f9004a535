// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"

	"github.com/vdfpack/vdfpack/pkg/vdfs"
)

var (
	// ErrMissingBaseDir is returned when neither the script nor an override names a base directory.
	ErrMissingBaseDir = errors.New("no base directory in script and no override given")
	// ErrMissingOutputFile is returned when neither the script nor an override names an output file.
	ErrMissingOutputFile = errors.New("no output file in script and no override given")
)

type (
	// Overrides are command-line values that take precedence over the script.
	// Empty paths and a nil Comment mean "not given".
	Overrides struct {
		BaseDir    string
		OutputFile string
		Comment    *string
	}

	// Plan is a fully resolved volume build.
	Plan struct {
		BaseDir    string
		OutputFile string
		Comment    string
		// Patterns are the include globs the filter was expanded from.
		Patterns []string
		Filter   vdfs.DepthFilter
	}
)

// Resolve applies ov on top of s and expands the include globs against the
// resulting base directory.
func (s *Script) Resolve(ov Overrides) (*Plan, error) {
	baseDir := s.BaseDir
	if ov.BaseDir != "" {
		baseDir = ov.BaseDir
	}
	if baseDir == "" {
		return nil, ErrMissingBaseDir
	}

	output := s.FilePath
	if ov.OutputFile != "" {
		output = ov.OutputFile
	}
	if output == "" {
		return nil, ErrMissingOutputFile
	}

	comment := s.Comment
	if ov.Comment != nil {
		comment = *ov.Comment
	}

	filter, err := ExpandGlobs(baseDir, s.FileIncludeGlobs)
	if err != nil {
		return nil, err
	}

	return &Plan{
		BaseDir:    baseDir,
		OutputFile: output,
		Comment:    comment,
		Patterns:   s.FileIncludeGlobs,
		Filter:     filter,
	}, nil
}
