// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatYAML is the default script format.
	FormatYAML Format = iota
	// FormatTOML is selected by the .toml extension.
	FormatTOML
)

// ErrParse is wrapped by every script decoding error.
var ErrParse = errors.New("parse script")

type (
	// Format is the encoding of a script document.
	Format int

	// Script is a declarative description of one volume.
	Script struct {
		Comment          string   `yaml:"comment" toml:"comment"`
		BaseDir          string   `yaml:"base_dir" toml:"base_dir"`
		FilePath         string   `yaml:"file_path" toml:"file_path"`
		FileIncludeGlobs []string `yaml:"file_include_globs" toml:"file_include_globs"`
	}
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	default:
		return "yaml"
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script document.
func Parse(data []byte, format Format) (*Script, error) {
	var s Script
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &s); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return nil, fmt.Errorf("%w: line %d, column %d: %w", ErrParse, row, col, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
	default:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w:\n%s", ErrParse, yaml.FormatError(err, false, true))
		}
	}
	return &s, nil
}
