package git

import (
	"errors"
	"time"
)

var (
	// ErrRepositoryNotFound is returned when no repository can be discovered
	// from the starting path or any of its ancestors
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrHeadUnavailable is returned when HEAD does not resolve to a commit
	// (unborn branch, empty repository, dangling reference)
	ErrHeadUnavailable = errors.New("head commit unavailable")
)

// ObjectKind is the type of an object stored in the object database
type ObjectKind int

const (
	KindOther ObjectKind = iota
	KindCommit
	KindTree
	KindBlob
	KindTag
)

func (k ObjectKind) String() string {
	switch k {
	case KindCommit:
		return "commit"
	case KindTree:
		return "tree"
	case KindBlob:
		return "blob"
	case KindTag:
		return "tag"
	default:
		return "other"
	}
}

// Signature represents Git author/committer information
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// RawCommit is a commit as read from the object database, before any
// summarizing. Parent and tree references are content-derived ids.
type RawCommit struct {
	ID        string
	ParentIDs []string
	Author    Signature
	Committer Signature
	Message   string
	TreeID    string
	// Time is the commit's own timestamp. Most sources derive it from the
	// committer line, so it normally equals Committer.When.
	Time time.Time
}

// DeltaStatus is the status of a single file-level difference between two trees
type DeltaStatus int

const (
	DeltaUnmodified DeltaStatus = iota
	DeltaAdded
	DeltaDeleted
	DeltaModified
	DeltaRenamed
	DeltaCopied
	DeltaTypeChange
	DeltaUnreadable
)

func (s DeltaStatus) String() string {
	switch s {
	case DeltaUnmodified:
		return "unmodified"
	case DeltaAdded:
		return "added"
	case DeltaDeleted:
		return "deleted"
	case DeltaModified:
		return "modified"
	case DeltaRenamed:
		return "renamed"
	case DeltaCopied:
		return "copied"
	case DeltaTypeChange:
		return "typechange"
	case DeltaUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Delta is one file-level change in a diff. An empty path means the side
// does not exist (e.g. OldPath of an addition).
type Delta struct {
	Status  DeltaStatus
	OldPath string
	NewPath string
}

// LineStats holds patch line counts for one delta
type LineStats struct {
	Added   int
	Deleted int
}

// RevWalk iterates object ids reachable from HEAD. Next returns io.EOF
// once the walk is exhausted.
type RevWalk interface {
	Next() (string, error)
	Close()
}

// Diff is the result of comparing two trees
type Diff interface {
	// FindRenames pairs deletions and additions into renames/copies
	// using the source's default similarity detection
	FindRenames() error
	Deltas() []Delta
	// LineStats returns the line counts for the delta at index i. ok is
	// false when no patch can be computed (binary content and similar).
	LineStats(i int) (stats LineStats, ok bool, err error)
}

// Source is the read-only repository access the history miner is built on
type Source interface {
	HeadWalk() (RevWalk, error)
	ObjectKind(id string) (ObjectKind, error)
	Commit(id string) (*RawCommit, error)
	// DiffTrees compares oldTree to newTree. An empty oldTree id stands for
	// the empty tree.
	DiffTrees(oldTree, newTree string) (Diff, error)
}
