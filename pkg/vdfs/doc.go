// SPDX-License-Identifier: MPL-2.0

// Package vdfs builds volumes in the PSVDSC_V2.00 catalog format.
//
// A volume is a 296-byte header, a catalog of fixed-width 80-byte records
// describing every directory and file of the packaged tree, and a data
// segment holding the concatenated file contents. The catalog is laid out in
// breadth-first order so that the children of a directory form a contiguous
// run; a directory record points at its first child by catalog index and a
// file record points at its content by absolute byte offset.
//
// Building a volume is a three step process:
//
//	root, err := vdfs.BuildTree("./data")
//	if err != nil {
//		return err
//	}
//	vol, err := vdfs.New(root, vdfs.WithComment("my mod"))
//	if err != nil {
//		return err
//	}
//	dgst, err := vol.WriteFile("./data/DEFAULT.VDF")
package vdfs
