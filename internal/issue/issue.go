// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Catalog identifiers. Values start at 1 so the zero Id means "no issue".
const (
	InputNotFoundId Id = iota + 1
	ScriptParseErrorId
	BaseDirMissingId
	OutputPathMissingId
	InvalidGlobId
	FileReadFailedId
	VolumeLimitExceededId
	WriteFailedId
	ConfigLoadFailedId
)

type (
	// Id identifies a catalog issue.
	Id int

	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// Issue is a catalog page explaining a failure class and how to recover.
	Issue struct {
		id      Id
		mdMsg   MarkdownMsg
		seeAlso []string
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// SeeAlso returns related commands and topics.
func (i *Issue) SeeAlso() []string {
	return slices.Clone(i.seeAlso)
}

// Render renders the page with the given glamour style ("auto", "dark", "light", "notty" or a JSON path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.seeAlso) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, s := range i.seeAlso {
			md.WriteString("- `" + s + "`\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	inputNotFoundIssue = &Issue{
		id: InputNotFoundId,
		mdMsg: `
# Input not found

The input must be either a **directory**, which is packed completely, or a
**build script** describing which files to include.

## Things you can try
- Check the path for typos; relative paths resolve against the current directory.
- Pack a whole directory:
~~~
$ vdfpack ./_work/data
~~~
- Pack from a script:
~~~
$ vdfpack ./mod.yml
~~~`,
		seeAlso: []string{"vdfpack --help"},
	}

	scriptParseErrorIssue = &Issue{
		id: ScriptParseErrorId,
		mdMsg: `
# The build script could not be read

Scripts are YAML documents (or TOML when the file ends in ` + "`.toml`" + `) with
these keys:

~~~yaml
comment: "My mod"
base_dir: ./_work/data
file_path: ./MyMod.vdf
file_include_globs:
  - "Textures/_Compiled/*.TEX"
  - "Anims/**"
~~~

## Things you can try
- Check indentation and quoting around the reported line.
- Make sure ` + "`file_include_globs`" + ` is a list of strings.`,
	}

	baseDirMissingIssue = &Issue{
		id: BaseDirMissingId,
		mdMsg: `
# No base directory

The script does not set ` + "`base_dir`" + ` and no override was given.

## Things you can try
- Add ` + "`base_dir: <dir>`" + ` to the script.
- Pass the directory on the command line with ` + "`-b <dir>`" + `.`,
	}

	outputPathMissingIssue = &Issue{
		id: OutputPathMissingId,
		mdMsg: `
# No output file

The script does not set ` + "`file_path`" + ` and no override was given.

## Things you can try
- Add ` + "`file_path: <file.vdf>`" + ` to the script.
- Pass the output on the command line with ` + "`-o <file.vdf>`" + `.`,
	}

	invalidGlobIssue = &Issue{
		id: InvalidGlobId,
		mdMsg: `
# Invalid include glob

Include globs are matched relative to the base directory and ignore case.
Supported syntax: ` + "`*`, `?`, `**`, `[a-z]`, `[!a-z]`, `{a,b}`" + `.

## Things you can try
- Close every ` + "`[`" + ` and ` + "`{`" + `.
- Use forward slashes between path components.`,
	}

	fileReadFailedIssue = &Issue{
		id: FileReadFailedId,
		mdMsg: `
# A file could not be read

Every file selected for the volume must be readable. The build stops at the
first file that cannot be read and no volume is written.

## Things you can try
- Check the file permissions.
- Exclude the file with a narrower include glob.`,
	}

	volumeLimitExceededIssue = &Issue{
		id: VolumeLimitExceededId,
		mdMsg: `
# Volume limits exceeded

Volume entries store names of at most **64 bytes**, a comment of at most
**256 bytes**, and sizes and offsets as 32-bit values (4 GiB).

## Things you can try
- Shorten the offending file or directory name.
- Shorten the comment.
- Split the content into several volumes.`,
	}

	writeFailedIssue = &Issue{
		id: WriteFailedId,
		mdMsg: `
# The volume could not be written

## Things you can try
- Make sure the output directory exists; it is not created automatically.
- Check that you can write to the output location.
- Close programs that may hold the output file open.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The configuration file is written in CUE:

~~~cue
output: default_name: "DEFAULT.VDF"
log: level: "info"
watch: debounce: "500ms"
~~~

## Things you can try
- Validate the file with ` + "`cue vet`" + `.
- Point to another file with ` + "`--config <file>`" + `.`,
	}

	issues = map[Id]*Issue{
		inputNotFoundIssue.Id():       inputNotFoundIssue,
		scriptParseErrorIssue.Id():    scriptParseErrorIssue,
		baseDirMissingIssue.Id():      baseDirMissingIssue,
		outputPathMissingIssue.Id():   outputPathMissingIssue,
		invalidGlobIssue.Id():         invalidGlobIssue,
		fileReadFailedIssue.Id():      fileReadFailedIssue,
		volumeLimitExceededIssue.Id(): volumeLimitExceededIssue,
		writeFailedIssue.Id():         writeFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

// Values returns every catalog issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
