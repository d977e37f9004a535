// SPDX-License-Identifier: MPL-2.0

package vdfs

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdfpack/vdfpack/internal/testutil"
)

// decodeHeader reads a header back with the fixed layout.
func decodeHeader(t *testing.T, raw []byte) Header {
	t.Helper()
	require.GreaterOrEqual(t, len(raw), HeaderSize)

	var h Header
	require.NoError(t, binary.Read(bytes.NewReader(raw[:HeaderSize]), binary.LittleEndian, &h))
	return h
}

func TestVolume_WriteToLayout(t *testing.T) {
	t.Parallel()

	v := buildVolume(t, map[string]string{
		"a.txt": "abc",
		"b.txt": "hello",
	}, WithComment("test"))

	var buf bytes.Buffer
	n, err := v.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.Bytes()

	require.Equal(t, int64(len(raw)), n)
	require.Equal(t, v.Size(), n)
	require.Len(t, raw, HeaderSize+2*EntrySize+8)

	assert.Equal(t, "test", string(raw[:4]))
	assert.Equal(t, byte(0x1A), raw[4])
	assert.Equal(t, "PSVDSC_V2.00\n\r\n\r", string(raw[CommentSize:CommentSize+SignatureSize]))

	ints := raw[CommentSize+SignatureSize : HeaderSize]
	le := binary.LittleEndian
	assert.Equal(t, uint32(2), le.Uint32(ints[0:]), "num_files")
	assert.Equal(t, uint32(2), le.Uint32(ints[4:]), "num_entries")
	assert.Equal(t, DOSTime(fixedTime), le.Uint32(ints[8:]), "timestamp")
	assert.Equal(t, uint32(8), le.Uint32(ints[12:]), "size")
	assert.Equal(t, uint32(HeaderSize), le.Uint32(ints[16:]), "catalog_offset")
	assert.Equal(t, FormatVersion, le.Uint32(ints[20:]), "version")

	second := raw[HeaderSize+EntrySize : HeaderSize+2*EntrySize]
	assert.Equal(t, "B.TXT", string(bytes.TrimRight(second[:NameSize], " ")))
	assert.Equal(t, uint32(HeaderSize+2*EntrySize+3), le.Uint32(second[NameSize:]), "next_index")
	assert.Equal(t, uint32(5), le.Uint32(second[NameSize+4:]), "size")
	assert.Equal(t, uint32(EntryTypeLastEntry), le.Uint32(second[NameSize+8:]), "type")
	assert.Zero(t, le.Uint32(second[NameSize+12:]), "attributes")

	assert.Equal(t, "abchello", string(raw[HeaderSize+2*EntrySize:]))

	// File offsets land on their content.
	assert.Equal(t, "abc", string(raw[v.Entries[0].NextIndex:v.Entries[0].NextIndex+3]))
	assert.Equal(t, "hello", string(raw[v.Entries[1].NextIndex:v.Entries[1].NextIndex+5]))
}

func TestVolume_WriteToEmpty(t *testing.T) {
	t.Parallel()

	v := buildVolume(t, nil)

	var buf bytes.Buffer
	_, err := v.WriteTo(&buf)
	require.NoError(t, err)
	require.Len(t, buf.Bytes(), HeaderSize)

	h := decodeHeader(t, buf.Bytes())
	assert.Zero(t, h.NumFiles)
	assert.Zero(t, h.NumEntries)
	assert.Zero(t, h.Size)
}

func TestVolume_HeaderRoundTripConstants(t *testing.T) {
	t.Parallel()

	trees := map[string]map[string]string{
		"empty":  nil,
		"flat":   {"a": "1", "b": "22"},
		"nested": {"x/y/z.bin": "zzz", "x/w.txt": "w", "q/": ""},
	}

	for name, files := range trees {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v := buildVolume(t, files)
			var buf bytes.Buffer
			_, err := v.WriteTo(&buf)
			require.NoError(t, err)

			h := decodeHeader(t, buf.Bytes())
			assert.Equal(t, Signature, h.Signature)
			assert.Equal(t, FormatVersion, h.Version)
			assert.Equal(t, uint32(HeaderSize), h.CatalogOffset)
			assert.Equal(t, v.Header, h)

			entries := make([]Entry, h.NumFiles)
			if len(entries) > 0 {
				catalog := bytes.NewReader(buf.Bytes()[HeaderSize:])
				require.NoError(t, binary.Read(catalog, binary.LittleEndian, entries))
			}
			assert.Equal(t, v.Entries, entries)
		})
	}
}

func TestVolume_WriteFile(t *testing.T) {
	t.Parallel()

	v := buildVolume(t, map[string]string{"sub/leaf.bin": "leaf"})
	out := filepath.Join(t.TempDir(), "OUT.VDF")

	// A stale, longer file must be truncated.
	testutil.MustWriteFile(t, out, string(make([]byte, 4096)))

	dgst, err := v.WriteFile(out)
	require.NoError(t, err)

	raw := testutil.MustReadFile(t, out)
	assert.Len(t, raw, int(v.Size()))

	sum := sha256.Sum256(raw)
	assert.Equal(t, "sha256:"+hex.EncodeToString(sum[:]), dgst.String())
	require.NoError(t, dgst.Validate())
}

func TestVolume_WriteFileMissingDirectory(t *testing.T) {
	t.Parallel()

	v := buildVolume(t, map[string]string{"a": "a"})
	_, err := v.WriteFile(filepath.Join(t.TempDir(), "missing", "OUT.VDF"))
	require.Error(t, err)
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.after {
		n := w.after
		w.after = 0
		return n, errDiskFull
	}
	w.after -= len(p)
	return len(p), nil
}

func TestVolume_WriteToPropagatesErrors(t *testing.T) {
	t.Parallel()

	v := buildVolume(t, map[string]string{"a": "abc"})

	n, err := v.WriteTo(&failingWriter{after: 10})
	require.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, int64(10), n)
}
