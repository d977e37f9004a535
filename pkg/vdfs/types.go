// SPDX-License-Identifier: MPL-2.0

package vdfs

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// CommentSize is the width of the header comment field.
	CommentSize = 256
	// SignatureSize is the width of the header signature field.
	SignatureSize = 16
	// NameSize is the width of a catalog entry name field.
	NameSize = 64

	// HeaderSize is the encoded size of Header and the offset of the catalog.
	HeaderSize = CommentSize + SignatureSize + 6*4
	// EntrySize is the encoded size of one catalog Entry.
	EntrySize = NameSize + 4*4

	// FormatVersion is the constant version field written to every header.
	FormatVersion uint32 = 80

	// commentFill is the byte the comment field is filled with before a comment is applied.
	commentFill = 0x1A
	// namePad pads entry names to NameSize.
	namePad = 0x20
)

// Signature identifies the format: "PSVDSC_V2.00\n\r\n\r".
var Signature = [SignatureSize]byte{
	'P', 'S', 'V', 'D', 'S', 'C', '_', 'V', '2', '.', '0', '0', '\n', '\r', '\n', '\r',
}

var (
	// ErrNameTooLong is returned when a file or directory name does not fit the name field.
	ErrNameTooLong = errors.New("entry name too long")
	// ErrCommentTooLong is returned when a comment does not fit the comment field.
	ErrCommentTooLong = errors.New("comment too long")
	// ErrSizeOverflow is returned when a size or offset does not fit in 32 bits.
	ErrSizeOverflow = errors.New("volume size exceeds 32-bit limit")
	// ErrReadFile is returned when the content of a file cannot be read.
	ErrReadFile = errors.New("read file")
	// ErrRootNotDirectory is returned when a filtered build is rooted at a non-directory.
	ErrRootNotDirectory = errors.New("root is not a directory")
)

// EntryType is the bitmask stored in the type field of a catalog entry.
type EntryType uint32

const (
	// EntryTypeFile marks a plain file. It is the zero value.
	EntryTypeFile EntryType = 0
	// EntryTypeDirectory marks a directory.
	EntryTypeDirectory EntryType = 0x80000000
	// EntryTypeLastEntry marks the last entry of a sibling group.
	EntryTypeLastEntry EntryType = 0x40000000
)

// IsDir reports whether the directory bit is set.
func (t EntryType) IsDir() bool { return t&EntryTypeDirectory != 0 }

// IsLast reports whether the last-entry bit is set.
func (t EntryType) IsLast() bool { return t&EntryTypeLastEntry != 0 }

// IsPlainFile reports whether t is exactly a file, with or without the last-entry bit.
func (t EntryType) IsPlainFile() bool {
	return t == EntryTypeFile || t == EntryTypeLastEntry
}

// String returns a short description such as "dir|last".
func (t EntryType) String() string {
	var parts []string
	if t.IsDir() {
		parts = append(parts, "dir")
	} else {
		parts = append(parts, "file")
	}
	if t.IsLast() {
		parts = append(parts, "last")
	}
	return strings.Join(parts, "|")
}

type (
	// Header is the fixed-size record at the start of a volume.
	// Its field order and widths match the on-disk layout.
	Header struct {
		Comment       [CommentSize]byte
		Signature     [SignatureSize]byte
		NumFiles      uint32
		NumEntries    uint32
		Timestamp     uint32
		Size          uint32
		CatalogOffset uint32
		Version       uint32
	}

	// Entry is one catalog record. Directories and files share the shape;
	// NextIndex is a catalog index for directories and a byte offset for files.
	Entry struct {
		Name       [NameSize]byte
		NextIndex  uint32
		Size       uint32
		Type       EntryType
		Attributes uint32
	}
)

// NewHeader returns a header with the constant fields set and the comment
// field filled with the sentinel byte.
func NewHeader(timestamp uint32) Header {
	h := Header{
		Signature:     Signature,
		Timestamp:     timestamp,
		CatalogOffset: HeaderSize,
		Version:       FormatVersion,
	}
	for i := range h.Comment {
		h.Comment[i] = commentFill
	}
	return h
}

// SetComment overwrites the start of the comment field with c.
// The remainder keeps the sentinel fill.
func (h *Header) SetComment(c string) error {
	if len(c) > CommentSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCommentTooLong, len(c), CommentSize)
	}
	copy(h.Comment[:], c)
	return nil
}

// CommentString returns the comment without the sentinel fill.
func (h *Header) CommentString() string {
	return strings.TrimRight(string(h.Comment[:]), string(rune(commentFill)))
}

// String renders the header for diagnostics.
func (h Header) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Comment: %s\n", h.CommentString())
	fmt.Fprintf(&sb, "Signature: %q\n", string(h.Signature[:]))
	fmt.Fprintf(&sb, "Number of Files: %d\n", h.NumFiles)
	fmt.Fprintf(&sb, "Number of Entries: %d\n", h.NumEntries)
	fmt.Fprintf(&sb, "Timestamp: %#08x\n", h.Timestamp)
	fmt.Fprintf(&sb, "Size: %d\n", h.Size)
	fmt.Fprintf(&sb, "Catalog Offset: %d\n", h.CatalogOffset)
	fmt.Fprintf(&sb, "Version: %d\n", h.Version)
	return sb.String()
}

// newEntry returns an entry with the upper-cased, space-padded name.
func newEntry(name string) (Entry, error) {
	if len(name) > NameSize {
		return Entry{}, fmt.Errorf("%w: %q is %d bytes (max %d)", ErrNameTooLong, name, len(name), NameSize)
	}
	var e Entry
	for i := range e.Name {
		e.Name[i] = namePad
	}
	copy(e.Name[:], asciiUpper(name))
	return e, nil
}

// NameString returns the entry name without padding.
func (e *Entry) NameString() string {
	return strings.TrimRight(string(e.Name[:]), string(rune(namePad)))
}

// String renders the entry for diagnostics.
func (e Entry) String() string {
	return fmt.Sprintf("%-64s next=%d size=%d type=%s", e.NameString(), e.NextIndex, e.Size, e.Type)
}

// asciiUpper upper-cases ASCII letters only; other bytes are left untouched.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
