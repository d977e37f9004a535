// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the vdfpack command line.
//
// A single root command takes one input path. A directory is packed
// completely; a file is read as a build script selecting what to pack.
package cmd
