// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vdfpack/vdfpack/internal/config"
	"github.com/vdfpack/vdfpack/internal/testutil"
	"github.com/vdfpack/vdfpack/pkg/vdfs"
)

var fixedTime = time.Date(2024, time.March, 9, 12, 34, 56, 0, time.UTC)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with a static configuration.
// A nil cfg uses the defaults.
func runCLI(t *testing.T, ctx context.Context, cfg *config.Config, args ...string) cliResult {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{
		Config: config.Static(cfg),
		Clock:  testutil.NewFakeClock(fixedTime),
		Stdout: &out,
		Stderr: &errOut,
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.ExecuteContext(ctx)
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

// volumeHeader decodes the fixed header of the volume at path.
func volumeHeader(t *testing.T, path string) (vdfs.Header, []byte) {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), vdfs.HeaderSize)

	var h vdfs.Header
	require.NoError(t, binary.Read(bytes.NewReader(raw), binary.LittleEndian, &h))
	return h, raw
}

// catalogNames returns the decoded entry names of a volume image.
func catalogNames(t *testing.T, h vdfs.Header, raw []byte) []string {
	t.Helper()

	entries := make([]vdfs.Entry, h.NumFiles)
	r := bytes.NewReader(raw[h.CatalogOffset:])
	require.NoError(t, binary.Read(r, binary.LittleEndian, entries))

	names := make([]string, len(entries))
	for i := range entries {
		names[i] = entries[i].NameString()
	}
	return names
}
