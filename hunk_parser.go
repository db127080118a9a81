package main

import (
	"strings"
)

// Hunk is one block of a unified diff: its "@@" header and its marked lines
type Hunk struct {
	Header string
	Lines  []string // each line keeps its ' ', '-' or '+' marker
}

// ParseHunks splits raw unified-diff text for one file into hunks.
//
// Lines before the first "@@ " header are dropped. Inside a hunk, lines starting
// with ' ', '-' or '+' are kept; any other line closes the hunk and is dropped,
// which discards trailing metadata such as no-newline markers.
func ParseHunks(raw string) []Hunk {
	var hunks []Hunk
	inside := false

	for _, line := range splitRawLines(raw) {
		if strings.HasPrefix(line, "@") {
			if strings.HasPrefix(line, "@@ ") {
				hunks = append(hunks, Hunk{Header: line})
				inside = true
			}
			continue
		}
		if !inside {
			continue
		}
		if !isHunkLine(line) {
			inside = false
			continue
		}
		hunks[len(hunks)-1].Lines = append(hunks[len(hunks)-1].Lines, line)
	}

	return hunks
}

func isHunkLine(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ', '-', '+':
		return true
	}
	return false
}

// countHunkLineStats counts added and removed lines in hunks
func countHunkLineStats(hunks []Hunk) (added int, removed int) {
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line[0] {
			case '+':
				added++
			case '-':
				removed++
			}
		}
	}
	return added, removed
}
