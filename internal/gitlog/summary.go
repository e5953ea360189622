package gitlog

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Yates-Labs/gitmine/internal/ingest/git"
)

const noMessage = "[no message]"

// summarizeCommit builds the log entry for one commit
func summarizeCommit(src git.Source, commit *git.RawCommit, cfg Config) (LogEntry, error) {
	log.WithField("commit", commit.ID).Debug("Processing commit")

	authorTime := commit.Author.When.Unix()
	commitTime := commit.Committer.When.Unix()
	if otherTime := commit.Time.Unix(); otherTime != commitTime {
		log.WithFields(log.Fields{
			"commit":         commit.ID,
			"time":           otherTime,
			"committer_time": commitTime,
		}).Error("Commit time differs from committer time")
	}

	fileChanges, err := commitFileChanges(src, commit, cfg)
	if err != nil {
		return LogEntry{}, fmt.Errorf("failed to get file changes for %s: %w", commit.ID, err)
	}

	parents := make([]string, len(commit.ParentIDs))
	copy(parents, commit.ParentIDs)

	return LogEntry{
		ID:          commit.ID,
		Summary:     summarizeMessage(commit.Message),
		Parents:     parents,
		Committer:   signatureToUser(commit.Committer),
		CommitTime:  commitTime,
		Author:      signatureToUser(commit.Author),
		AuthorTime:  authorTime,
		CoAuthors:   ParseCoAuthors(commit.Message),
		FileChanges: fileChanges,
	}, nil
}

func signatureToUser(sig git.Signature) User {
	return User{Name: sig.Name, Email: sig.Email}
}

// summarizeMessage returns the first paragraph of a commit message with its
// lines joined and surrounding whitespace trimmed, the way git shows a subject
// line. Messages with no text get a placeholder.
func summarizeMessage(message string) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimLeft(message, " \t\r\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return noMessage
	}
	return strings.Join(lines, " ")
}
