// SPDX-License-Identifier: MPL-2.0

package vdfs

import "fmt"

const maxUint32 = 1<<32 - 1

// populateHeader sets the entry counts and catalog offset from entries.
func populateHeader(h *Header, entries []Entry) error {
	if uint64(len(entries)) > maxUint32 {
		return fmt.Errorf("%w: %d entries", ErrSizeOverflow, len(entries))
	}
	h.NumFiles = uint32(len(entries)) //nolint:gosec // checked above
	h.NumEntries = 0
	for i := range entries {
		if entries[i].Type.IsPlainFile() {
			h.NumEntries++
		}
	}
	h.CatalogOffset = HeaderSize
	return nil
}

// assignOffsets points every plain-file entry at its content in the data
// segment, which follows the catalog and is laid out in catalog order, and
// sets the header's total data size. Directory entries are left untouched.
func assignOffsets(h *Header, entries []Entry) error {
	dataStart := uint64(h.CatalogOffset) + uint64(h.NumFiles)*EntrySize
	var running uint64
	for i := range entries {
		e := &entries[i]
		if !e.Type.IsPlainFile() {
			continue
		}
		offset := dataStart + running
		if offset > maxUint32 {
			return fmt.Errorf("%w: offset of %s is %d", ErrSizeOverflow, e.NameString(), offset)
		}
		e.NextIndex = uint32(offset)
		running += uint64(e.Size)
	}

	var total uint64
	for i := range entries {
		total += uint64(entries[i].Size)
	}
	if total > maxUint32 || dataStart+total > maxUint32 {
		return fmt.Errorf("%w: %d data bytes", ErrSizeOverflow, total)
	}
	h.Size = uint32(total)
	return nil
}
