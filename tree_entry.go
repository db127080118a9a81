package main

import (
	"strings"
)

// EntryKind represents the object kind of a tree entry
type EntryKind int

const (
	UnknownEntry EntryKind = iota
	SubtreeEntry
	BlobEntry
)

// String returns the object type token used in tree listings
func (k EntryKind) String() string {
	switch k {
	case SubtreeEntry:
		return "tree"
	case BlobEntry:
		return "blob"
	default:
		return "unknown"
	}
}

// TreeEntry is one parsed line of a tree listing
type TreeEntry struct {
	Kind EntryKind
	Path string // slash-joined, relative to the repository root
	ID   string
	Mode string
}

// CommitSnapshot is a parsed commit: its root tree, parents and root-level entries
type CommitSnapshot struct {
	TreeID    string
	ParentIDs []string
	Entries   []TreeEntry
}

// parseTreeListing parses "<mode> <kind> <id>\t<path>" lines.
// Malformed lines and kinds other than tree/blob are skipped.
func parseTreeListing(listing, dir string) []TreeEntry {
	var entries []TreeEntry
	for _, line := range splitRawLines(listing) {
		tab := strings.IndexByte(line, '\t')
		if tab <= 0 {
			continue
		}
		fields := strings.Fields(line[:tab])
		if len(fields) < 3 {
			continue
		}

		var kind EntryKind
		switch fields[1] {
		case "tree":
			kind = SubtreeEntry
		case "blob":
			kind = BlobEntry
		default:
			continue
		}

		entries = append(entries, TreeEntry{
			Kind: kind,
			Path: joinWithSlash(dir, trimPath(line[tab+1:])),
			ID:   fields[2],
			Mode: fields[0],
		})
	}
	return entries
}

// parseCommitHeader reads the key/value header of a raw commit.
// The header ends at the first line that is not "key value" shaped.
func parseCommitHeader(raw string) (tree string, parents []string) {
	for _, line := range splitRawLines(raw) {
		sp := strings.IndexByte(line, ' ')
		if sp < 1 {
			break
		}
		key := line[:sp]
		val := strings.TrimSpace(line[sp+1:])
		switch key {
		case "tree":
			tree = val
		case "parent":
			parents = append(parents, val)
		}
	}
	return tree, parents
}

// trimPath removes the C-style quoting git applies to unusual path names.
// Spaces belong to the name and are kept.
func trimPath(path string) string {
	path = strings.TrimRight(path, "\r\n")
	if len(path) >= 2 && path[0] == '"' && path[len(path)-1] == '"' {
		path = unquoteGitPath(path[1 : len(path)-1])
	}
	return strings.ReplaceAll(path, "\\", "/")
}

// unquoteGitPath decodes the escapes git uses inside quoted path names
func unquoteGitPath(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '"', '\\':
			b.WriteByte(s[i])
		case '0', '1', '2', '3':
			// three-digit octal byte
			if i+2 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) {
				b.WriteByte((s[i]-'0')<<6 | (s[i+1]-'0')<<3 | (s[i+2] - '0'))
				i += 2
			} else {
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

// joinWithSlash joins two path segments with exactly one slash between them
func joinWithSlash(left, right string) string {
	left = strings.TrimRight(left, "/")
	right = strings.TrimLeft(right, "/")
	switch {
	case left == "":
		return right
	case right == "":
		return left
	default:
		return left + "/" + right
	}
}

// quoteGitPath quotes a name the way git prints unusual path names
func quoteGitPath(name string) string {
	needsQuote := false
	for i := 0; i < len(name); i++ {
		if c := name[i]; c < 0x20 || c >= 0x7f || c == '"' || c == '\\' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return name
	}

	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			b.WriteByte('\\')
			b.WriteByte('0' + c>>6)
			b.WriteByte('0' + (c>>3)&7)
			b.WriteByte('0' + c&7)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
