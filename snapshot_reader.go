package main

import (
	"fmt"
)

// SnapshotReader retrieves trees and commits from the backend and parses them
type SnapshotReader struct {
	backend Backend
	logger  *Logger
}

// NewSnapshotReader creates a reader over backend
func NewSnapshotReader(backend Backend, logger *Logger) *SnapshotReader {
	if logger == nil {
		logger = newDefaultLogger(WARN)
	}
	return &SnapshotReader{backend: backend, logger: logger}
}

// ReadTree returns the entries of the tree id, with paths joined onto dir.
// An empty id yields no entries and no error.
func (sr *SnapshotReader) ReadTree(id, dir string) ([]TreeEntry, error) {
	if sr.backend == nil {
		return nil, ErrBackendUnavailable
	}
	if id == "" {
		return nil, nil
	}

	raw, err := sr.backend.CatObject(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree %s: %w: %w", id, ErrObjectUnavailable, err)
	}
	return parseTreeListing(string(raw), dir), nil
}

// ReadCommit returns the commit id with its parents and root-level entries
func (sr *SnapshotReader) ReadCommit(id string) (CommitSnapshot, error) {
	if sr.backend == nil {
		return CommitSnapshot{}, ErrBackendUnavailable
	}
	if id == "" {
		return CommitSnapshot{}, fmt.Errorf("failed to read commit: empty id: %w", ErrObjectUnavailable)
	}

	raw, err := sr.backend.CatObject(id)
	if err != nil {
		return CommitSnapshot{}, fmt.Errorf("failed to read commit %s: %w: %w", id, ErrObjectUnavailable, err)
	}

	tree, parents := parseCommitHeader(string(raw))
	if tree == "" {
		return CommitSnapshot{}, fmt.Errorf("commit %s has no tree: %w", id, ErrMalformedObject)
	}

	entries, err := sr.ReadTree(tree, "")
	if err != nil {
		return CommitSnapshot{}, fmt.Errorf("failed to read root tree of commit %s: %w", id, err)
	}

	return CommitSnapshot{
		TreeID:    tree,
		ParentIDs: parents,
		Entries:   entries,
	}, nil
}

// readTreeOrEmpty degrades an unreadable tree to an empty listing
func (sr *SnapshotReader) readTreeOrEmpty(id, dir string) []TreeEntry {
	entries, err := sr.ReadTree(id, dir)
	if err != nil {
		sr.logger.Warn("tree unavailable, treating as empty", map[string]any{
			"tree":    id,
			"dir":     dir,
			"missing": isObjectNotFoundError(err),
			"error":   err,
		})
		return nil
	}
	return entries
}
