package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathIndexStoreLastWriteWins(t *testing.T) {
	pi := NewPathIndex()
	pi.Store("a.txt", "1")
	pi.Store("a.txt", "2")

	id, ok := pi.Lookup("a.txt")
	assert.True(t, ok)
	assert.Equal(t, "2", id)

	_, ok = pi.Lookup("missing")
	assert.False(t, ok)
}

func TestPathIndexStoreEntries(t *testing.T) {
	pi := NewPathIndex()
	pi.StoreEntries([]TreeEntry{
		{Kind: BlobEntry, Path: "a.txt", ID: "1"},
		{Kind: SubtreeEntry, Path: "src", ID: "2"},
	})

	id, _ := pi.Lookup("src")
	assert.Equal(t, "2", id)

	e, level, ok := PathIndexChain{pi}.lookupEntry("src")
	assert.True(t, ok)
	assert.Equal(t, 0, level)
	assert.Equal(t, SubtreeEntry, e.Kind)

	pi.Store("bare.txt", "3")
	e, _, _ = PathIndexChain{pi}.lookupEntry("bare.txt")
	assert.Equal(t, UnknownEntry, e.Kind)
	assert.Equal(t, "3", e.ID)
}

func TestPathIndexChainLookup(t *testing.T) {
	first := NewPathIndex()
	first.Store("shared.txt", "first")
	first.Store("only-first.txt", "f")

	second := NewPathIndex()
	second.Store("shared.txt", "second")
	second.Store("only-second.txt", "s")

	var chain PathIndexChain
	chain.Push(first)
	chain.Push(second)

	tests := []struct {
		path      string
		wantID    string
		wantLevel int
		wantOK    bool
	}{
		{"shared.txt", "first", 0, true},
		{"only-first.txt", "f", 0, true},
		{"only-second.txt", "s", 1, true},
		{"nowhere.txt", "", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, level, ok := chain.Lookup(tt.path)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestEmptyChainLookup(t *testing.T) {
	var chain PathIndexChain
	_, level, ok := chain.Lookup("a.txt")
	assert.False(t, ok)
	assert.Equal(t, -1, level)
}
