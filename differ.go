package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// HeadRevision selects working-directory mode
const HeadRevision = "HEAD"

// DiffRecord is the structured diff of one file
type DiffRecord struct {
	DestPath   string
	SourcePath string
	Mode       string
	OldID      string
	NewID      string
	Header     string
	Index      string
	Hunks      []Hunk
}

// LineStats returns the number of added and removed lines of the record
func (r DiffRecord) LineStats() (added int, removed int) {
	return countHunkLineStats(r.Hunks)
}

// RevisionResolver is implemented by backends that understand revision names
type RevisionResolver interface {
	ResolveRevision(rev string) (string, error)
}

// DiffOptions tunes a Differ
type DiffOptions struct {
	DetectRemovals bool
	Include        []string // doublestar patterns matched against destination paths
}

// Differ computes the structured diff of a revision or of the working directory
type Differ struct {
	backend Backend
	reader  *SnapshotReader
	logger  *Logger
	options DiffOptions

	lastStats ReconcileStats
}

// NewDiffer creates a Differ over backend
func NewDiffer(backend Backend, logger *Logger, options DiffOptions) *Differ {
	if logger == nil {
		logger = newDefaultLogger(WARN)
	}
	return &Differ{
		backend: backend,
		reader:  NewSnapshotReader(backend, logger),
		logger:  logger,
		options: options,
	}
}

// LastStats returns the counters of the most recent Diff call
func (d *Differ) LastStats() ReconcileStats {
	return d.lastStats
}

// Diff returns the diff records of revision, sorted case-insensitively by path.
// An empty revision or HEAD diffs the working directory against HEAD.
func (d *Differ) Diff(revision string) ([]DiffRecord, error) {
	if d.backend == nil {
		d.logger.Warn("skip diff: no backend", nil)
		return []DiffRecord{}, nil
	}

	descriptors, err := d.Descriptors(revision)
	if err != nil {
		return nil, err
	}

	records := make([]DiffRecord, 0, len(descriptors))
	for _, desc := range descriptors {
		records = append(records, d.buildRecord(desc))
	}

	d.logger.Info("diff complete", map[string]any{
		"revision":      revisionLabel(revision),
		"files":         len(records),
		"trees_visited": d.lastStats.TreesVisited,
		"expansions":    d.lastStats.Expansions,
	})
	return records, nil
}

// Descriptors returns the filtered, sorted change descriptors of revision
// without fetching any raw diff.
func (d *Differ) Descriptors(revision string) ([]ChangeDescriptor, error) {
	if d.backend == nil {
		return []ChangeDescriptor{}, nil
	}

	r := NewReconciler(d.reader, d.logger, d.options.DetectRemovals)

	var err error
	if revision == "" || revision == HeadRevision {
		err = d.reconcileWorkingDirectory(r)
	} else {
		err = d.reconcileRevision(r, revision)
	}
	d.lastStats = r.Stats()
	if err != nil {
		return nil, err
	}

	descriptors := d.filter(r.Descriptors())
	sortDescriptors(descriptors)
	return descriptors, nil
}

// reconcileWorkingDirectory diffs HEAD against the live status list
func (d *Differ) reconcileWorkingDirectory(r *Reconciler) error {
	head, err := d.backend.ResolveHead()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	commit, err := d.reader.ReadCommit(head)
	if err != nil {
		return fmt.Errorf("failed to read HEAD commit: %w", err)
	}

	stats, err := d.backend.Status()
	if err != nil {
		return fmt.Errorf("failed to get git status: %w", err)
	}

	root := NewPathIndex()
	root.StoreEntries(commit.Entries)
	chain := PathIndexChain{root}

	r.expandStatusDirectories(stats, &chain)
	r.reconcileStatus(stats, chain)
	return nil
}

// reconcileRevision diffs a commit against all of its parents, first parent first
func (d *Differ) reconcileRevision(r *Reconciler, revision string) error {
	id, err := d.resolveRevision(revision)
	if err != nil {
		return err
	}

	commit, err := d.reader.ReadCommit(id)
	if err != nil {
		return fmt.Errorf("failed to read revision %s: %w", revision, err)
	}

	chain := make(PathIndexChain, 0, len(commit.ParentIDs))
	var firstParent []TreeEntry
	for i, parentID := range commit.ParentIDs {
		parent, err := d.reader.ReadCommit(parentID)
		if err != nil {
			d.logger.Warn("parent unavailable, treating as empty", map[string]any{
				"commit": id,
				"parent": parentID,
				"error":  err,
			})
		}

		level := NewPathIndex()
		level.StoreEntries(parent.Entries)
		chain.Push(level)
		if i == 0 {
			firstParent = parent.Entries
		}
	}

	r.Reconcile("", commit.Entries, chain)
	if r.detectRemovals && len(commit.ParentIDs) > 0 {
		r.reconcileRemovals("", firstParent, commit.Entries)
	}
	return nil
}

func (d *Differ) resolveRevision(revision string) (string, error) {
	resolver, ok := d.backend.(RevisionResolver)
	if !ok {
		return revision, nil
	}
	id, err := resolver.ResolveRevision(revision)
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %s: %w", revision, err)
	}
	return id, nil
}

// filter keeps descriptors whose destination matches an include pattern
func (d *Differ) filter(descriptors []ChangeDescriptor) []ChangeDescriptor {
	if len(d.options.Include) == 0 {
		return descriptors
	}

	kept := descriptors[:0]
	for _, desc := range descriptors {
		if matchesAny(d.options.Include, desc.DestPath) {
			kept = append(kept, desc)
		}
	}
	return kept
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// sortDescriptors orders by destination path, ignoring case; case-equal paths keep their order
func sortDescriptors(descriptors []ChangeDescriptor) {
	sort.SliceStable(descriptors, func(i, j int) bool {
		return strings.ToLower(descriptors[i].DestPath) < strings.ToLower(descriptors[j].DestPath)
	})
}

// buildRecord fetches the raw diff of desc and parses it into hunks
func (d *Differ) buildRecord(desc ChangeDescriptor) DiffRecord {
	record := DiffRecord{
		DestPath:   desc.DestPath,
		SourcePath: desc.SourcePath,
		Mode:       desc.Mode,
		OldID:      desc.OldID,
		NewID:      desc.NewID,
		Header:     desc.Header,
		Index:      desc.Index,
	}

	raw, err := d.rawDiff(desc)
	if err != nil {
		d.logger.Error("get raw diff", err, map[string]any{
			"file": desc.DestPath,
			"old":  desc.OldID,
			"new":  desc.NewID,
		})
		return record
	}

	record.Hunks = ParseHunks(raw)
	return record
}

// rawDiff picks the backend call for a descriptor
func (d *Differ) rawDiff(desc ChangeDescriptor) (string, error) {
	switch {
	case desc.OldID != "" && desc.NewID != "":
		return d.backend.RawDiff(desc.OldID, desc.NewID)
	case desc.Removed:
		return d.backend.RawDiff(desc.OldID, "")
	case !desc.Worktree && desc.NewID != "":
		return d.backend.RawDiff("", desc.NewID)
	default:
		return d.backend.RawDiffToFile(desc.OldID, desc.DestPath)
	}
}

func revisionLabel(revision string) string {
	if revision == "" {
		return HeadRevision
	}
	return revision
}
