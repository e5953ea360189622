package gitlog

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Yates-Labs/gitmine/internal/ingest/git"
)

// commitFileChanges decides which parent trees a commit is diffed against:
//   - a root commit is diffed against the empty tree, so everything is an Add
//   - a merge lists nothing unless cfg.IncludeMergeFileChanges is set, in which
//     case the diffs against every parent are concatenated in parent order
//   - any other commit is diffed against its single parent
func commitFileChanges(src git.Source, commit *git.RawCommit, cfg Config) ([]FileChange, error) {
	if len(commit.ParentIDs) == 0 {
		log.WithField("commit", commit.ID).Info("Commit has no parent")
		return scanDiffs(src, commit, "", "")
	}

	if len(commit.ParentIDs) > 1 && !cfg.IncludeMergeFileChanges {
		log.WithField("commit", commit.ID).Debug("Not showing file changes for merge commit")
		return []FileChange{}, nil
	}

	changes := make([]FileChange, 0)
	for _, parentID := range commit.ParentIDs {
		log.WithFields(log.Fields{
			"commit": commit.ID,
			"parent": parentID,
		}).Debug("Getting changes for parent")

		parent, err := src.Commit(parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent %s of %s: %w", parentID, commit.ID, err)
		}

		parentChanges, err := scanDiffs(src, commit, parent.TreeID, parentID)
		if err != nil {
			return nil, err
		}
		changes = append(changes, parentChanges...)
	}

	return changes, nil
}

// scanDiffs diffs parentTree against the commit's tree and classifies every
// delta. An empty parentTree means the empty tree.
func scanDiffs(src git.Source, commit *git.RawCommit, parentTree, parentID string) ([]FileChange, error) {
	diff, err := src.DiffTrees(parentTree, commit.TreeID)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s against parent %q: %w", commit.ID, parentID, err)
	}

	if err := diff.FindRenames(); err != nil {
		return nil, fmt.Errorf("failed to find renames for %s: %w", commit.ID, err)
	}

	deltas := diff.Deltas()
	changes := make([]FileChange, 0, len(deltas))

	for i, delta := range deltas {
		stats, ok, err := diff.LineStats(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get line stats for %s in %s: %w", deltaPath(delta), commit.ID, err)
		}
		if !ok {
			// binary content and the like: counted as zero lines
			log.WithFields(log.Fields{
				"commit": commit.ID,
				"parent": parentID,
				"file":   deltaPath(delta),
			}).Warn("No patch possible for delta")
			stats = git.LineStats{}
		}

		if change, ok := classifyDelta(delta, stats.Added, stats.Deleted); ok {
			changes = append(changes, change)
		}
	}

	return changes, nil
}

func deltaPath(delta git.Delta) string {
	if delta.NewPath != "" {
		return delta.NewPath
	}
	return delta.OldPath
}
