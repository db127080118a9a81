package main

// ChangeType represents the kind of working-directory change reported by the backend
type ChangeType int

const (
	Modified ChangeType = iota
	Added
	Deleted
	Renamed
	Untracked
)

// String returns the one-letter status code for the change type
func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "M"
	case Added:
		return "A"
	case Deleted:
		return "D"
	case Renamed:
		return "R"
	case Untracked:
		return "?"
	default:
		return " "
	}
}

// StatusEntry is one path of the live working-directory status
type StatusEntry struct {
	Path   string
	Change ChangeType
}

// Backend is the version-control plumbing the diff engine consumes.
//
// An empty id passed to RawDiff or RawDiffToFile stands for the empty blob.
type Backend interface {
	CatObject(id string) ([]byte, error)
	RawDiff(oldID, newID string) (string, error)
	RawDiffToFile(oldID, path string) (string, error)
	Status() ([]StatusEntry, error)
	ResolveHead() (string, error)
}
