// SPDX-License-Identifier: MPL-2.0

// Command vdfpack packs a directory into a VDFS volume.
package main

import cmd "github.com/vdfpack/vdfpack/cmd/vdfpack"

func main() {
	cmd.Execute()
}
