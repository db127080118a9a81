package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
)

// fakeBackend is an in-memory Backend that records every call
type fakeBackend struct {
	objects   map[string]string
	rawDiffs  map[string]string // "old..new"
	fileDiffs map[string]string // "old:path"
	failDiffs map[string]bool   // keys of rawDiffs or fileDiffs that fail
	status    []StatusEntry
	head      string

	catCalls  map[string]int
	diffCalls []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		objects:   make(map[string]string),
		rawDiffs:  make(map[string]string),
		fileDiffs: make(map[string]string),
		failDiffs: make(map[string]bool),
		catCalls:  make(map[string]int),
	}
}

func (f *fakeBackend) CatObject(id string) ([]byte, error) {
	f.catCalls[id]++
	content, ok := f.objects[id]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", id, plumbing.ErrObjectNotFound)
	}
	return []byte(content), nil
}

func (f *fakeBackend) RawDiff(oldID, newID string) (string, error) {
	key := oldID + ".." + newID
	f.diffCalls = append(f.diffCalls, "diff "+key)
	if f.failDiffs[key] {
		return "", fmt.Errorf("diff %s failed", key)
	}
	return f.rawDiffs[key], nil
}

func (f *fakeBackend) RawDiffToFile(oldID, path string) (string, error) {
	key := oldID + ":" + path
	f.diffCalls = append(f.diffCalls, "file "+key)
	if f.failDiffs[key] {
		return "", fmt.Errorf("diff %s failed", key)
	}
	return f.fileDiffs[key], nil
}

func (f *fakeBackend) Status() ([]StatusEntry, error) {
	return f.status, nil
}

func (f *fakeBackend) ResolveHead() (string, error) {
	if f.head == "" {
		return "", fmt.Errorf("HEAD: %w", plumbing.ErrReferenceNotFound)
	}
	return f.head, nil
}

// addTree stores a tree object built from "<mode> <kind> <id>\t<name>" lines
func (f *fakeBackend) addTree(id string, lines ...string) {
	f.objects[id] = strings.Join(lines, "\n") + "\n"
}

// addCommit stores a commit object with its tree and parents
func (f *fakeBackend) addCommit(id, tree string, parents ...string) {
	var b strings.Builder
	fmt.Fprintf(&b, "tree %s\n", tree)
	for _, p := range parents {
		fmt.Fprintf(&b, "parent %s\n", p)
	}
	b.WriteString("author Test <test@example.com> 1700000000 +0000\n")
	b.WriteString("committer Test <test@example.com> 1700000000 +0000\n")
	b.WriteString("\nmessage\n")
	f.objects[id] = b.String()
}

func blobLine(id, name string) string {
	return fmt.Sprintf("100644 blob %s\t%s", id, name)
}

func treeLine(id, name string) string {
	return fmt.Sprintf("040000 tree %s\t%s", id, name)
}

// resolvingBackend adds revision names on top of a fakeBackend
type resolvingBackend struct {
	*fakeBackend
	refs map[string]string
}

func (r *resolvingBackend) ResolveRevision(rev string) (string, error) {
	if id, ok := r.refs[rev]; ok {
		return id, nil
	}
	return "", fmt.Errorf("revision %s: %w", rev, plumbing.ErrReferenceNotFound)
}

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	logger := newDefaultLogger(DEBUG)
	logger.SetOutput(io.Discard)
	return logger
}

func TestChangeTypeString(t *testing.T) {
	tests := []struct {
		change ChangeType
		want   string
	}{
		{Modified, "M"},
		{Added, "A"},
		{Deleted, "D"},
		{Renamed, "R"},
		{Untracked, "?"},
		{ChangeType(42), " "},
	}

	for _, tt := range tests {
		if got := tt.change.String(); got != tt.want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", tt.change, got, tt.want)
		}
	}
}
