// SPDX-License-Identifier: MPL-2.0

package vdfs

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// noParent is the parent id given to the root's children.
const noParent = -1

type (
	// linearizer flattens one tree into catalog order. It owns every
	// accumulator of a single volume build.
	linearizer struct {
		entries []Entry
		// children maps a directory's flat index to its children's flat
		// indices, in enumeration order.
		children map[int][]int
		data     bytes.Buffer
		logger   *log.Logger
	}

	queued struct {
		parent int
		node   *Node
	}
)

func newLinearizer(logger *log.Logger) *linearizer {
	return &linearizer{
		entries:  make([]Entry, 0),
		children: make(map[int][]int),
		logger:   logger,
	}
}

// linearize enumerates the tree breadth-first, starting at the root's
// children, then resolves every directory's first-child index.
func (l *linearizer) linearize(root *Node) error {
	if err := l.enumerate(root); err != nil {
		return err
	}
	l.resolveFirstChildren()
	return nil
}

// enumerate is the first pass: one entry per node in BFS order, file
// contents appended to the data buffer in the same order.
func (l *linearizer) enumerate(root *Node) error {
	queue := make([]queued, 0, len(root.Children))
	for _, c := range root.Children {
		queue = append(queue, queued{parent: noParent, node: c})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		index := len(l.entries)
		entry, err := newEntry(item.node.Name)
		if err != nil {
			return err
		}

		if item.node.IsDir() {
			entry.Type = EntryTypeDirectory
			for _, c := range item.node.Children {
				queue = append(queue, queued{parent: index, node: c})
			}
		} else {
			content, err := os.ReadFile(item.node.Path)
			if err != nil {
				return fmt.Errorf("%w %s: %w", ErrReadFile, item.node.Path, err)
			}
			if uint64(len(content)) > maxUint32 {
				return fmt.Errorf("%w: %s is %d bytes", ErrSizeOverflow, item.node.Path, len(content))
			}
			entry.Size = uint32(len(content)) //nolint:gosec // checked above
			l.data.Write(content)
			l.logger.Debug("added file", "path", item.node.Path, "size", entry.Size)
		}
		if item.node.IsLast {
			entry.Type |= EntryTypeLastEntry
		}

		l.entries = append(l.entries, entry)
		if item.parent != noParent {
			l.children[item.parent] = append(l.children[item.parent], index)
		}
	}
	return nil
}

// resolveFirstChildren is the second pass. A directory without children
// keeps NextIndex 0, which is indistinguishable from a pointer to entry 0.
func (l *linearizer) resolveFirstChildren() {
	for i := range l.entries {
		if !l.entries[i].Type.IsDir() {
			continue
		}
		if kids := l.children[i]; len(kids) > 0 {
			l.entries[i].NextIndex = uint32(kids[0]) //nolint:gosec // bounded by entry count
		}
	}
}
