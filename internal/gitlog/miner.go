package gitlog

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/Yates-Labs/gitmine/internal/ingest/git"
)

// Mine builds the log of every commit reachable from HEAD of the repository
// containing startPath.
// Any failure reading the history aborts the run and no partial log is returned.
func Mine(ctx context.Context, startPath string, cfg Config) (*Log, error) {
	repo, err := git.Discover(ctx, startPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Warn("Failed to close repository")
		}
	}()

	log.WithField("path", startPath).Debug("Mining repository")

	return MineSource(ctx, repo, cfg)
}

// MineSource walks src from HEAD and summarizes each commit it reaches.
// Objects other than commits are skipped.
func MineSource(ctx context.Context, src git.Source, cfg Config) (*Log, error) {
	walk, err := src.HeadWalk()
	if err != nil {
		return nil, err
	}
	defer walk.Close()

	entries := make([]LogEntry, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled while mining: %w", err)
		}

		id, err := walk.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to walk history: %w", err)
		}

		entry, ok, err := summarizeObject(src, id, cfg)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}

	return &Log{Entries: entries}, nil
}

func summarizeObject(src git.Source, id string, cfg Config) (LogEntry, bool, error) {
	kind, err := src.ObjectKind(id)
	if err != nil {
		return LogEntry{}, false, err
	}

	if kind != git.KindCommit {
		log.WithFields(log.Fields{
			"id":   id,
			"kind": kind.String(),
		}).Info("Ignoring object type")
		return LogEntry{}, false, nil
	}

	commit, err := src.Commit(id)
	if err != nil {
		return LogEntry{}, false, err
	}

	entry, err := summarizeCommit(src, commit, cfg)
	if err != nil {
		return LogEntry{}, false, err
	}
	return entry, true, nil
}
