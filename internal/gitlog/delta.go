package gitlog

import (
	log "github.com/sirupsen/logrus"

	"github.com/Yates-Labs/gitmine/internal/ingest/git"
)

// classifyDelta converts a raw delta and its line counts into a FileChange.
// Statuses outside the five we track are dropped with a warning, as are
// deltas missing the path their status requires.
func classifyDelta(delta git.Delta, linesAdded, linesDeleted int) (FileChange, bool) {
	change := FileChange{
		LinesAdded:   linesAdded,
		LinesDeleted: linesDeleted,
	}

	switch delta.Status {
	case git.DeltaAdded:
		change.Kind = ChangeAdd
		change.Path = delta.NewPath
	case git.DeltaDeleted:
		change.Kind = ChangeDelete
		change.Path = delta.OldPath
	case git.DeltaModified:
		change.Kind = ChangeModify
		change.Path = delta.NewPath
	case git.DeltaRenamed, git.DeltaCopied:
		change.Kind = ChangeRename
		if delta.Status == git.DeltaCopied {
			change.Kind = ChangeCopy
		}
		change.Path = delta.NewPath
		if delta.OldPath == "" {
			return dropDelta(delta, "missing old path")
		}
		previous := delta.OldPath
		change.PreviousPath = &previous
	default:
		return dropDelta(delta, "unhandled status")
	}

	if change.Path == "" {
		return dropDelta(delta, "missing path")
	}

	return change, true
}

func dropDelta(delta git.Delta, reason string) (FileChange, bool) {
	log.WithFields(log.Fields{
		"status":   delta.Status.String(),
		"old_path": delta.OldPath,
		"new_path": delta.NewPath,
	}).Warnf("Not able to handle delta: %s", reason)
	return FileChange{}, false
}
