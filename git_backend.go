package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitBackend serves the diff engine from a go-git repository
type GitBackend struct {
	repo    *git.Repository
	logger  *Logger
	options UnifiedOptions
}

// NewGitBackend wraps an already opened repository
func NewGitBackend(repo *git.Repository, logger *Logger, options UnifiedOptions) *GitBackend {
	if logger == nil {
		logger = newDefaultLogger(WARN)
	}
	if options.MaxFileSize <= 0 {
		options.MaxFileSize = MaxFileSize
	}
	return &GitBackend{repo: repo, logger: logger, options: options}
}

// OpenGitBackend opens the repository containing path
func OpenGitBackend(path string, logger *Logger, options UnifiedOptions) (*GitBackend, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = wd
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}

	return NewGitBackend(repo, logger, options), nil
}

// Configure replaces the logger and diff options of the backend
func (gb *GitBackend) Configure(logger *Logger, options UnifiedOptions) {
	if logger != nil {
		gb.logger = logger
	}
	if options.MaxFileSize <= 0 {
		options.MaxFileSize = MaxFileSize
	}
	gb.options = options
}

// RootPath gets the git repository root path
func (gb *GitBackend) RootPath() (string, error) {
	worktree, err := gb.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	return worktree.Filesystem.Root(), nil
}

// CurrentBranch gets the current git branch
func (gb *GitBackend) CurrentBranch() (string, error) {
	ref, err := gb.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	if ref.Name().IsBranch() {
		return ref.Name().Short(), nil
	}

	// Detached HEAD state, return the commit hash (shortened)
	return shortID(ref.Hash().String()), nil
}

// ResolveHead returns the commit id HEAD points at
func (gb *GitBackend) ResolveHead() (string, error) {
	ref, err := gb.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	return ref.Hash().String(), nil
}

// ResolveRevision turns a revision expression such as a branch, tag or HEAD~2 into a commit id
func (gb *GitBackend) ResolveRevision(rev string) (string, error) {
	hash, err := gb.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	return hash.String(), nil
}

// CatObject returns the pretty-printed content of an object.
// Trees come back as "<mode> <kind> <id>\t<name>" lines, everything else raw.
func (gb *GitBackend) CatObject(id string) ([]byte, error) {
	if !plumbing.IsHash(id) {
		return nil, fmt.Errorf("invalid object id %q: %w", id, ErrObjectUnavailable)
	}

	obj, err := gb.repo.Storer.EncodedObject(plumbing.AnyObject, plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", id, err)
	}

	if obj.Type() == plumbing.TreeObject {
		tree, err := object.DecodeTree(gb.repo.Storer, obj)
		if err != nil {
			return nil, fmt.Errorf("failed to decode tree %s: %w", id, err)
		}
		return []byte(formatTreeListing(tree)), nil
	}

	reader, err := obj.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", id, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", id, err)
	}
	return content, nil
}

func formatTreeListing(tree *object.Tree) string {
	var b strings.Builder
	for _, e := range tree.Entries {
		fmt.Fprintf(&b, "%06o %s %s\t%s\n", uint32(e.Mode), treeEntryKind(e.Mode), e.Hash, quoteGitPath(e.Name))
	}
	return b.String()
}

func treeEntryKind(mode filemode.FileMode) string {
	switch mode {
	case filemode.Dir:
		return "tree"
	case filemode.Submodule:
		return "commit"
	default:
		return "blob"
	}
}

// RawDiff returns the unified diff between two blobs
func (gb *GitBackend) RawDiff(oldID, newID string) (string, error) {
	oldContent, err := gb.readBlobContent(oldID)
	if err != nil {
		return "", err
	}
	newContent, err := gb.readBlobContent(newID)
	if err != nil {
		return "", err
	}

	return unifiedDiff(string(oldContent), string(newContent), blobLabel("a", oldID), blobLabel("b", newID), gb.options)
}

// RawDiffToFile returns the unified diff between a blob and the working file at path.
// A missing working file diffs as empty.
func (gb *GitBackend) RawDiffToFile(oldID, path string) (string, error) {
	oldContent, err := gb.readBlobContent(oldID)
	if err != nil {
		return "", err
	}
	newContent, exists, err := gb.readWorktreeFile(path)
	if err != nil {
		return "", err
	}

	newLabel := "/dev/null"
	if exists {
		newLabel = joinWithSlash("b", path)
	}
	return unifiedDiff(string(oldContent), string(newContent), blobLabel("a", oldID), newLabel, gb.options)
}

// Status lists the changed and untracked paths of the working directory, sorted
func (gb *GitBackend) Status() ([]StatusEntry, error) {
	worktree, err := gb.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get git status: %w", err)
	}

	entries := make([]StatusEntry, 0, len(status))
	for path, fileStatus := range status {
		code := fileStatus.Worktree
		if code == git.Unmodified {
			code = fileStatus.Staging
		}
		if code == git.Unmodified {
			continue
		}
		entries = append(entries, StatusEntry{Path: path, Change: statusCodeToChangeType(code)})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// statusCodeToChangeType converts git status code to ChangeType
func statusCodeToChangeType(code git.StatusCode) ChangeType {
	switch code {
	case git.Added:
		return Added
	case git.Deleted:
		return Deleted
	case git.Renamed:
		return Renamed
	case git.Untracked:
		return Untracked
	default:
		return Modified
	}
}

// readBlobContent reads a blob; an empty id is the empty blob
func (gb *GitBackend) readBlobContent(id string) ([]byte, error) {
	if id == "" {
		return nil, nil
	}
	if !plumbing.IsHash(id) {
		return nil, fmt.Errorf("invalid blob id %q: %w", id, ErrObjectUnavailable)
	}

	blob, err := object.GetBlob(gb.repo.Storer, plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", id, err)
	}
	if err := gb.enforceSizeLimit(id, blob.Size); err != nil {
		return nil, err
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", id, err)
	}
	content, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", id, err)
	}
	return content, nil
}

// readWorktreeFile reads file content from worktree
func (gb *GitBackend) readWorktreeFile(path string) ([]byte, bool, error) {
	worktree, err := gb.repo.Worktree()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get worktree: %w", err)
	}

	file, err := worktree.Filesystem.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open worktree file %s: %w", path, err)
	}
	content, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read worktree file %s: %w", path, err)
	}
	if err := gb.enforceSizeLimit(path, int64(len(content))); err != nil {
		return nil, false, err
	}
	return content, true, nil
}

// enforceSizeLimit checks if file content exceeds the size limit
func (gb *GitBackend) enforceSizeLimit(name string, size int64) error {
	limit := int64(gb.options.MaxFileSize)
	if size <= limit {
		return nil
	}
	gb.logger.Warn("File too large to diff", map[string]any{
		"file": name,
		"size": size,
		"max":  limit,
	})
	return fmt.Errorf("file %s too large to diff (%d > %d)", name, size, limit)
}

func blobLabel(side, id string) string {
	if id == "" {
		return "/dev/null"
	}
	return side + "/" + shortID(id)
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
