// SPDX-License-Identifier: MPL-2.0

package vdfs

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
)

// WriteTo writes the header, the catalog and the data segment to w in
// little-endian order. It implements io.WriterTo.
func (v *Volume) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	if err := binary.Write(bw, binary.LittleEndian, &v.Header); err != nil {
		return cw.n, fmt.Errorf("write header: %w", err)
	}
	if len(v.Entries) > 0 {
		if err := binary.Write(bw, binary.LittleEndian, v.Entries); err != nil {
			return cw.n, fmt.Errorf("write catalog: %w", err)
		}
	}
	if _, err := bw.Write(v.Data); err != nil {
		return cw.n, fmt.Errorf("write data: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("flush: %w", err)
	}
	return cw.n, nil
}

// WriteFile creates or truncates path, writes the volume and returns the
// sha256 digest of the written bytes. A failed write can leave a partial
// file behind.
func (v *Volume) WriteFile(path string) (digest.Digest, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	digester := digest.Canonical.Digester()
	if _, err := v.WriteTo(io.MultiWriter(f, digester.Hash())); err != nil {
		f.Close() //nolint:errcheck // the write error takes precedence
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return digester.Digest(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
