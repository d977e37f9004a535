// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vdfpack/vdfpack/pkg/vdfs"
)

// ExpandGlobs matches every pattern case-insensitively below baseDir and
// returns the matched relative paths split into components. Paths matched
// by more than one pattern appear once, in first-match order.
func ExpandGlobs(baseDir string, patterns []string) (vdfs.DepthFilter, error) {
	fsys := os.DirFS(baseDir)
	seen := make(map[string]struct{})
	filter := vdfs.DepthFilter{}

	for _, pattern := range patterns {
		ci := MatchPattern(pattern)
		if ci == "" {
			continue
		}
		if !doublestar.ValidatePattern(ci) {
			return nil, fmt.Errorf("invalid include glob %q: %w", pattern, doublestar.ErrBadPattern)
		}

		matches, err := doublestar.Glob(fsys, ci)
		if err != nil {
			return nil, fmt.Errorf("expand include glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			key := strings.ToLower(m)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			filter = append(filter, strings.Split(m, "/"))
		}
	}
	return filter, nil
}

// MatchPattern returns the case-insensitive doublestar form of an include
// glob, relative to the base directory. Blank globs yield "".
func MatchPattern(pattern string) string {
	normalized := normalizePattern(pattern)
	if normalized == "" {
		return ""
	}
	return CaseInsensitive(normalized)
}

// normalizePattern strips the prefixes that cannot be matched against an fs.FS.
func normalizePattern(p string) string {
	p = strings.TrimSpace(p)
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "/"):
			p = p[1:]
		default:
			return p
		}
	}
}

// CaseInsensitive rewrites a glob so that ASCII letters match either case:
// "Data/*.txt" becomes "[dD][aA][tT][aA]/*.[tT][xX][tT]" and the class
// "[a-c]" becomes "[a-cA-C]". Escaped characters are kept as they are.
func CaseInsensitive(pattern string) string {
	var sb strings.Builder
	sb.Grow(len(pattern) * 4)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			sb.WriteByte(c)
			sb.WriteByte(pattern[i+1])
			i++
		case c == '[':
			end := classEnd(pattern, i)
			if end < 0 {
				sb.WriteString(pattern[i:])
				return sb.String()
			}
			sb.WriteByte('[')
			sb.WriteString(foldClass(pattern[i+1 : end]))
			sb.WriteByte(']')
			i = end
		case isLetter(c):
			sb.WriteByte('[')
			sb.WriteByte(toLower(c))
			sb.WriteByte(toUpper(c))
			sb.WriteByte(']')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// classEnd returns the index of the ']' closing the class opened at start,
// or -1 when the class is unterminated. A ']' directly after the opening
// (or after its negation) closes an empty class, which doublestar rejects.
func classEnd(pattern string, start int) int {
	for j := start + 1; j < len(pattern); j++ {
		switch pattern[j] {
		case '\\':
			j++
		case ']':
			return j
		}
	}
	return -1
}

// foldClass adds the other-case counterpart of every letter and letter
// range in a class body: "a-c" gains "A-C", "A-z" gains "A-Z" and "a-z".
// Counterparts go before a trailing literal '-' so no new range forms.
func foldClass(body string) string {
	var sb, extra strings.Builder
	i := 0
	if i < len(body) && (body[i] == '!' || body[i] == '^') {
		sb.WriteByte(body[i])
		i++
	}

	trailingDash := false
	for i < len(body) {
		lo, n := classChar(body, i)
		item := body[i : i+n]
		i += n

		if i+1 < len(body) && body[i] == '-' {
			hi, m := classChar(body, i+1)
			sb.WriteString(item)
			sb.WriteString(body[i : i+1+m])
			i += 1 + m
			foldRange(&extra, lo, hi)
			trailingDash = false
			continue
		}

		sb.WriteString(item)
		trailingDash = item == "-"
		if isLetter(lo) {
			extra.WriteByte(swapByte(lo))
		}
	}

	out := sb.String()
	if trailingDash {
		return out[:len(out)-1] + extra.String() + "-"
	}
	return out + extra.String()
}

// classChar returns the character at i of a class body and its encoded width.
func classChar(body string, i int) (byte, int) {
	if body[i] == '\\' && i+1 < len(body) {
		return body[i+1], 2
	}
	return body[i], 1
}

// foldRange writes the swapped-case form of the letters lo..hi covers.
func foldRange(sb *strings.Builder, lo, hi byte) {
	if lo > hi {
		return
	}
	if l, h := max(lo, 'a'), min(hi, 'z'); l <= h {
		writeRange(sb, toUpper(l), toUpper(h))
	}
	if l, h := max(lo, 'A'), min(hi, 'Z'); l <= h {
		writeRange(sb, toLower(l), toLower(h))
	}
}

func writeRange(sb *strings.Builder, lo, hi byte) {
	sb.WriteByte(lo)
	if lo != hi {
		sb.WriteByte('-')
		sb.WriteByte(hi)
	}
}

func swapByte(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return toUpper(c)
	}
	return toLower(c)
}

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func toUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
