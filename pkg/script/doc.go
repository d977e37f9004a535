// SPDX-License-Identifier: MPL-2.0

// Package script loads volume build scripts and resolves them, together with
// command-line overrides, into the inputs of a volume build.
//
// A script names the base directory, the output file, the volume comment and
// an ordered list of include globs relative to the base directory:
//
//	comment: "My mod"
//	base_dir: ./_work/data
//	file_path: ./MyMod.vdf
//	file_include_globs:
//	  - "Textures/_Compiled/*.TEX"
//	  - "Anims/**"
//
// YAML is the primary format; files with a .toml extension are read as TOML
// with the same keys. Globs match case-insensitively.
package script
