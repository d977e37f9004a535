// SPDX-License-Identifier: MPL-2.0

package vdfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// KindDirectory is a directory node.
	KindDirectory NodeKind = iota
	// KindFile is a file node.
	KindFile
)

type (
	// NodeKind distinguishes directory and file nodes.
	NodeKind uint8

	// Node is one directory or file of the tree being packaged.
	// A directory exclusively owns its children.
	Node struct {
		Name     string
		Path     string
		Kind     NodeKind
		Children []*Node
		// Depth is 0 for the root and increases by one per level.
		Depth int
		// IsLast is set on the final node of a sorted sibling group.
		IsLast bool
	}

	// DepthFilter is a set of accepted relative paths, each split into its
	// components. A node at depth d is accepted when some path has a
	// component at index d-1 equal to the node name, ignoring case.
	DepthFilter [][]string

	// TreeOption configures BuildTree.
	TreeOption func(*treeBuilder)

	treeBuilder struct {
		filter   DepthFilter
		filtered bool
		exclude  map[string]struct{}
		logger   *log.Logger
	}
)

// IsDir reports whether n is a directory.
func (n *Node) IsDir() bool { return n.Kind == KindDirectory }

// Walk calls fn for n and every descendant in depth-first pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Accepts reports whether a node named name at depth is part of the filter.
// The root (depth 0) is always accepted.
func (f DepthFilter) Accepts(name string, depth int) bool {
	if depth <= 0 {
		return true
	}
	for _, components := range f {
		if len(components) >= depth && strings.EqualFold(components[depth-1], name) {
			return true
		}
	}
	return false
}

// WithFilter restricts the walk to nodes accepted by filter. A filtered
// build requires the root to be a directory. A nil filter still enables
// filtering and accepts nothing below the root.
func WithFilter(filter DepthFilter) TreeOption {
	return func(b *treeBuilder) {
		b.filter = filter
		b.filtered = true
	}
}

// WithExclude leaves the given paths out of the tree. It keeps a volume
// written inside its own input directory from packing its previous version.
func WithExclude(paths ...string) TreeOption {
	return func(b *treeBuilder) {
		if b.exclude == nil {
			b.exclude = make(map[string]struct{}, len(paths))
		}
		for _, p := range paths {
			b.exclude[absPath(p)] = struct{}{}
		}
	}
}

// WithTreeLogger sets the logger used for skipped-path diagnostics.
func WithTreeLogger(l *log.Logger) TreeOption {
	return func(b *treeBuilder) {
		b.logger = l
	}
}

// BuildTree walks root and returns the sorted tree below it.
//
// Children are ordered directories first, then files, each group by
// case-insensitive name. Nested directories that cannot be read are left
// out with a warning; an unreadable root is an error. Files whose metadata
// cannot be read are kept, so building the volume from the tree fails.
func BuildTree(root string, opts ...TreeOption) (*Node, error) {
	b := &treeBuilder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = discardLogger()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}

	node := &Node{
		Name:  filepath.Base(root),
		Path:  root,
		Depth: 0,
	}
	if !info.IsDir() {
		if b.filtered {
			return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
		}
		node.Kind = KindFile
		return node, nil
	}

	node.Kind = KindDirectory
	children, err := b.readChildren(root, 1)
	if err != nil {
		return nil, fmt.Errorf("read root directory: %w", err)
	}
	node.Children = children
	return node, nil
}

// readChildren lists dir and builds the accepted child nodes at depth.
func (b *treeBuilder) readChildren(dir string, depth int) ([]*Node, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	children := make([]*Node, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if b.filtered && !b.filter.Accepts(name, depth) {
			continue
		}

		path := filepath.Join(dir, name)
		if _, skip := b.exclude[absPath(path)]; skip {
			b.logger.Debug("skipping excluded path", "path", path)
			continue
		}
		// Stat follows symlinks so linked files are packaged by content.
		info, err := os.Stat(path)
		if err != nil {
			if de.IsDir() {
				b.logger.Warn("skipping unreadable directory", "path", path, "err", err)
				continue
			}
			// Kept as a file so the content read reports the failure.
			children = append(children, &Node{Name: name, Path: path, Kind: KindFile, Depth: depth})
			continue
		}

		if !info.IsDir() {
			children = append(children, &Node{Name: name, Path: path, Kind: KindFile, Depth: depth})
			continue
		}
		if de.Type()&os.ModeSymlink != 0 {
			b.logger.Debug("skipping symlinked directory", "path", path)
			continue
		}

		grandchildren, err := b.readChildren(path, depth+1)
		if err != nil {
			b.logger.Warn("skipping unreadable directory", "path", path, "err", err)
			continue
		}
		children = append(children, &Node{
			Name:     name,
			Path:     path,
			Kind:     KindDirectory,
			Children: grandchildren,
			Depth:    depth,
		})
	}

	sortSiblings(children)
	return children, nil
}

// sortSiblings orders directories before files, each by case-insensitive
// name, and marks the final node as the last sibling.
func sortSiblings(nodes []*Node) {
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	for i, n := range nodes {
		n.IsLast = i == len(nodes)-1
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
