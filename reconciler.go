package main

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v2"
)

// ChangeDescriptor is one pending file-level change, before its raw diff is fetched
type ChangeDescriptor struct {
	DestPath   string
	SourcePath string
	Mode       string
	OldID      string
	NewID      string
	Directory  string

	// Worktree marks descriptors whose new side is the working file, diffed by path.
	Worktree bool
	// Removed marks descriptors produced by the removal pass.
	Removed bool

	Header string // diff --git a/<source> b/<dest>
	Index  string // index <old>..<new> <mode>
}

// ReconcileStats counts the work done by one reconciliation
type ReconcileStats struct {
	TreesVisited int
	Expansions   int
	Descriptors  int
}

// Reconciler walks new snapshot entries against a chain of old indexes and
// accumulates change descriptors. One Reconciler serves one diff invocation.
type Reconciler struct {
	reader         *SnapshotReader
	logger         *Logger
	detectRemovals bool

	descriptors []ChangeDescriptor
	stats       ReconcileStats
}

// NewReconciler creates a reconciler reading trees through reader
func NewReconciler(reader *SnapshotReader, logger *Logger, detectRemovals bool) *Reconciler {
	if logger == nil {
		logger = newDefaultLogger(WARN)
	}
	return &Reconciler{
		reader:         reader,
		logger:         logger,
		detectRemovals: detectRemovals,
	}
}

// Descriptors returns the descriptors accumulated so far, in discovery order
func (r *Reconciler) Descriptors() []ChangeDescriptor {
	return r.descriptors
}

// Stats returns the work counters of this reconciliation
func (r *Reconciler) Stats() ReconcileStats {
	s := r.stats
	s.Descriptors = len(r.descriptors)
	return s
}

// Reconcile classifies every entry against chain.
//
// A path absent from every level is an add, and a new subtree adds every blob
// below it. Otherwise the first level holding the path decides: an equal id
// means unchanged, a different id means a modified blob or a subtree to
// descend into. A path that switched between file and directory is replaced.
func (r *Reconciler) Reconcile(dir string, entries []TreeEntry, chain PathIndexChain) {
	for _, e := range entries {
		old, _, found := chain.lookupEntry(e.Path)
		if !found {
			r.addEntry(dir, e)
			continue
		}
		if old.ID == e.ID {
			continue
		}
		if old.Kind != UnknownEntry && old.Kind != e.Kind {
			r.replaceEntry(dir, old, e)
			continue
		}

		switch e.Kind {
		case SubtreeEntry:
			r.diffTree(e.Path, old.ID, e.ID)
		case BlobEntry:
			r.emit(newChangeDescriptor(dir, e.Path, e.Mode, old.ID, e.ID))
		}
	}
}

// replaceEntry handles a path whose kind changed, such as a directory replaced
// by a file. The new side is reported as added and, when removals are on, the
// old side as removed.
func (r *Reconciler) replaceEntry(dir string, old, e TreeEntry) {
	r.logger.Debug("entry kind changed", map[string]any{
		"path": e.Path,
		"old":  old.Kind.String(),
		"new":  e.Kind.String(),
	})

	r.addEntry(dir, e)
	if r.detectRemovals {
		r.removeEntry(dir, old)
	}
}

// diffTree reconciles the children of a subtree whose id changed
func (r *Reconciler) diffTree(dir, oldID, newID string) {
	r.stats.TreesVisited++
	r.logger.Debug("descend into changed subtree", map[string]any{
		"dir": dir,
		"old": oldID,
		"new": newID,
	})

	older := r.reader.readTreeOrEmpty(oldID, dir)
	newer := r.reader.readTreeOrEmpty(newID, dir)

	level := NewPathIndex()
	level.StoreEntries(older)
	r.Reconcile(dir, newer, PathIndexChain{level})

	if r.detectRemovals {
		r.reconcileRemovals(dir, older, newer)
	}
}

// reconcileRemovals emits removals for old entries missing from the new side
func (r *Reconciler) reconcileRemovals(dir string, older, newer []TreeEntry) {
	present := set.New[string](len(newer))
	for _, e := range newer {
		present.Insert(e.Path)
	}

	for _, e := range older {
		if present.Contains(e.Path) {
			continue
		}
		r.removeEntry(dir, e)
	}
}

// addEntry emits an add for a blob, or for every blob below a new subtree
func (r *Reconciler) addEntry(dir string, e TreeEntry) {
	if e.Kind != SubtreeEntry {
		r.emit(newChangeDescriptor(dir, e.Path, e.Mode, "", e.ID))
		return
	}
	r.stats.TreesVisited++
	r.Reconcile(e.Path, r.reader.readTreeOrEmpty(e.ID, e.Path), nil)
}

// removeEntry emits a removal for a blob, or for every blob below a subtree
func (r *Reconciler) removeEntry(dir string, e TreeEntry) {
	switch e.Kind {
	case BlobEntry:
		d := newChangeDescriptor(dir, e.Path, e.Mode, e.ID, "")
		d.Removed = true
		r.emit(d)
	case SubtreeEntry:
		r.stats.TreesVisited++
		for _, child := range r.reader.readTreeOrEmpty(e.ID, e.Path) {
			r.removeEntry(e.Path, child)
		}
	}
}

func (r *Reconciler) emit(d ChangeDescriptor) {
	r.descriptors = append(r.descriptors, d)
}

// newChangeDescriptor builds a descriptor with its synthetic header lines
func newChangeDescriptor(dir, path, mode, oldID, newID string) ChangeDescriptor {
	d := ChangeDescriptor{
		DestPath:   path,
		SourcePath: path,
		Mode:       mode,
		OldID:      oldID,
		NewID:      newID,
		Directory:  dir,
	}
	d.Header = diffHeaderLine(d.SourcePath, d.DestPath)
	d.Index = indexHeaderLine(d.OldID, d.NewID, d.Mode)
	return d
}

func diffHeaderLine(source, dest string) string {
	return fmt.Sprintf("diff --git %s %s", joinWithSlash("a", source), joinWithSlash("b", dest))
}

func indexHeaderLine(oldID, newID, mode string) string {
	return strings.TrimRight(fmt.Sprintf("index %s..%s %s", oldID, newID, mode), " ")
}
