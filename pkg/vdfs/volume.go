// SPDX-License-Identifier: MPL-2.0

package vdfs

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type (
	// Volume is a fully built archive: header, catalog and data segment.
	// It is immutable once New returns.
	Volume struct {
		Header  Header
		Root    *Node
		Entries []Entry
		// Data is the concatenated content of every file entry, in catalog order.
		Data []byte
	}

	// Option configures New.
	Option func(*volumeConfig)

	volumeConfig struct {
		comment string
		clock   Clock
		logger  *log.Logger
	}
)

// WithComment sets the header comment.
func WithComment(c string) Option {
	return func(cfg *volumeConfig) {
		cfg.comment = c
	}
}

// WithClock sets the clock used for the header timestamp.
func WithClock(c Clock) Option {
	return func(cfg *volumeConfig) {
		cfg.clock = c
	}
}

// WithLogger sets the logger for build diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(cfg *volumeConfig) {
		cfg.logger = l
	}
}

// New linearizes root into a catalog, reads every file into the data
// segment and computes all offsets. Any unreadable file aborts the build.
func New(root *Node, opts ...Option) (*Volume, error) {
	cfg := volumeConfig{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}

	start := cfg.clock.Now()
	header := NewHeader(DOSTime(start))
	if err := header.SetComment(cfg.comment); err != nil {
		return nil, err
	}

	l := newLinearizer(cfg.logger)
	if err := l.linearize(root); err != nil {
		return nil, err
	}
	if err := populateHeader(&header, l.entries); err != nil {
		return nil, err
	}
	if err := assignOffsets(&header, l.entries); err != nil {
		return nil, err
	}

	cfg.logger.Debug("catalog built",
		"entries", header.NumFiles,
		"files", header.NumEntries,
		"data_size", header.Size,
	)

	return &Volume{
		Header:  header,
		Root:    root,
		Entries: l.entries,
		Data:    l.data.Bytes(),
	}, nil
}

// FromDir builds the tree below dir with treeOpts and then the volume.
func FromDir(dir string, treeOpts []TreeOption, opts ...Option) (*Volume, error) {
	root, err := BuildTree(dir, treeOpts...)
	if err != nil {
		return nil, err
	}
	return New(root, opts...)
}

// Timestamp decodes the header timestamp in UTC.
func (v *Volume) Timestamp() time.Time {
	ts := v.Header.Timestamp
	return time.Date(
		int(ts>>25)+dosEpochYear,
		time.Month(ts>>21&0x0F),
		int(ts>>16&0x1F),
		int(ts>>11&0x1F),
		int(ts>>5&0x3F),
		int(ts&0x1F)*2,
		0, time.UTC,
	)
}

// Size returns the number of bytes WriteTo produces.
func (v *Volume) Size() int64 {
	return int64(HeaderSize) + int64(len(v.Entries))*EntrySize + int64(len(v.Data))
}

// String renders the header and catalog for diagnostics.
func (v *Volume) String() string {
	var sb strings.Builder
	sb.WriteString("Header:\n")
	sb.WriteString(v.Header.String())
	sb.WriteString("\nCatalog:\n")
	for i, e := range v.Entries {
		fmt.Fprintf(&sb, "%4d %s\n", i, e)
	}
	return sb.String()
}
