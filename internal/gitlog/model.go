package gitlog

import (
	"fmt"
)

// User is a simplified identity taken from a signature or a co-author
// trailer. Unknown parts are left blank rather than omitted.
type User struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// ChangeKind is the kind of file change recorded in the log
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeRename
	ChangeDelete
	ChangeModify
	ChangeCopy
)

var changeKindNames = map[ChangeKind]string{
	ChangeAdd:    "Add",
	ChangeRename: "Rename",
	ChangeDelete: "Delete",
	ChangeModify: "Modify",
	ChangeCopy:   "Copied",
}

func (k ChangeKind) String() string {
	if name, ok := changeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// MarshalText writes the kind by name, so it serializes the same way in JSON and YAML
func (k ChangeKind) MarshalText() ([]byte, error) {
	name, ok := changeKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown change kind %d", int(k))
	}
	return []byte(name), nil
}

func (k *ChangeKind) UnmarshalText(text []byte) error {
	for kind, name := range changeKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown change kind %q", string(text))
}

// FileChange summarizes one file touched by a commit.
// PreviousPath is set only for renames and copies.
type FileChange struct {
	Path         string     `json:"file" yaml:"file"`
	PreviousPath *string    `json:"old_file" yaml:"old_file"`
	Kind         ChangeKind `json:"change" yaml:"change"`
	LinesAdded   int        `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int        `json:"lines_deleted" yaml:"lines_deleted"`
}

// LogEntry is the simplified record of one commit
type LogEntry struct {
	ID          string       `json:"id" yaml:"id"`
	Summary     string       `json:"summary" yaml:"summary"`
	Parents     []string     `json:"parents" yaml:"parents"`
	Committer   User         `json:"committer" yaml:"committer"`
	CommitTime  int64        `json:"commit_time" yaml:"commit_time"`
	Author      User         `json:"author" yaml:"author"`
	AuthorTime  int64        `json:"author_time" yaml:"author_time"`
	CoAuthors   []User       `json:"co_authors" yaml:"co_authors"`
	FileChanges []FileChange `json:"file_changes" yaml:"file_changes"`
}

// IsMerge reports whether the commit has more than one parent
func (e LogEntry) IsMerge() bool {
	return len(e.Parents) > 1
}

// Log is the mined history in revision-walk order
type Log struct {
	Entries []LogEntry `json:"entries" yaml:"entries"`
}

// Config controls how the history is mined
type Config struct {
	// IncludeMergeFileChanges lists the changes of merge commits against
	// every parent. git log leaves these out by default, and so do we.
	IncludeMergeFileChanges bool
}

// DefaultConfig returns the configuration used when the caller has no preference
func DefaultConfig() Config {
	return Config{IncludeMergeFileChanges: false}
}
