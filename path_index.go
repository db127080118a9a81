package main

// PathIndex maps a normalized path to the content id it has in one ancestor snapshot
type PathIndex struct {
	entries map[string]TreeEntry
}

// NewPathIndex creates an empty index
func NewPathIndex() *PathIndex {
	return &PathIndex{entries: make(map[string]TreeEntry)}
}

// Store records the id of a path whose kind is not known; the last write wins
func (pi *PathIndex) Store(path, id string) {
	pi.entries[path] = TreeEntry{Path: path, ID: id}
}

// StoreEntries records every entry of a tree listing with its kind and mode
func (pi *PathIndex) StoreEntries(entries []TreeEntry) {
	for _, e := range entries {
		pi.entries[e.Path] = e
	}
}

// Lookup returns the id stored for path
func (pi *PathIndex) Lookup(path string) (string, bool) {
	e, ok := pi.entries[path]
	return e.ID, ok
}

// PathIndexChain is an ordered list of indexes probed front to back.
// The first level containing a path decides its old id.
type PathIndexChain []*PathIndex

// Push appends a level with the lowest precedence
func (c *PathIndexChain) Push(level *PathIndex) {
	*c = append(*c, level)
}

// Lookup returns the id from the first level containing path and that level's position
func (c PathIndexChain) Lookup(path string) (id string, level int, ok bool) {
	e, level, ok := c.lookupEntry(path)
	return e.ID, level, ok
}

// lookupEntry is Lookup returning the whole stored entry.
// Paths stored with Store come back with UnknownEntry as kind.
func (c PathIndexChain) lookupEntry(path string) (TreeEntry, int, bool) {
	for i, pi := range c {
		if e, ok := pi.entries[path]; ok {
			return e, i, true
		}
	}
	return TreeEntry{}, -1, false
}
