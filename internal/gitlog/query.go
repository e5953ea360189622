package gitlog

import (
	"sort"
	"time"
)

// Contributor aggregates the activity of one identity across a log
type Contributor struct {
	User         User `json:"user" yaml:"user"`
	Commits      int  `json:"commits" yaml:"commits"`
	CoAuthored   int  `json:"co_authored" yaml:"co_authored"`
	LinesAdded   int  `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int  `json:"lines_deleted" yaml:"lines_deleted"`
}

// Contributors aggregates statistics by author, counting co-author trailers
// separately. Identities are compared by exact name and email.
// Sorted by commit count, then co-authorships, then name.
func (l *Log) Contributors() []Contributor {
	byUser := make(map[User]*Contributor)
	get := func(u User) *Contributor {
		c, ok := byUser[u]
		if !ok {
			c = &Contributor{User: u}
			byUser[u] = c
		}
		return c
	}

	for _, entry := range l.Entries {
		c := get(entry.Author)
		c.Commits++
		for _, fc := range entry.FileChanges {
			c.LinesAdded += fc.LinesAdded
			c.LinesDeleted += fc.LinesDeleted
		}
		for _, co := range entry.CoAuthors {
			get(co).CoAuthored++
		}
	}

	contributors := make([]Contributor, 0, len(byUser))
	for _, c := range byUser {
		contributors = append(contributors, *c)
	}

	sort.Slice(contributors, func(i, j int) bool {
		a, b := contributors[i], contributors[j]
		if a.Commits != b.Commits {
			return a.Commits > b.Commits
		}
		if a.CoAuthored != b.CoAuthored {
			return a.CoAuthored > b.CoAuthored
		}
		if a.User.Name != b.User.Name {
			return a.User.Name < b.User.Name
		}
		return a.User.Email < b.User.Email
	})

	return contributors
}

// FileHistory returns the entries that touch path, either as the changed
// file or as the source of a rename or copy
func (l *Log) FileHistory(path string) []LogEntry {
	history := make([]LogEntry, 0)
	for _, entry := range l.Entries {
		for _, fc := range entry.FileChanges {
			if fc.Path == path || (fc.PreviousPath != nil && *fc.PreviousPath == path) {
				history = append(history, entry)
				break
			}
		}
	}
	return history
}

// Filter selects the entries to keep from a log
type Filter struct {
	// AuthorEmail matches the author or any co-author email
	AuthorEmail string
	// Since and Until bound the author time; zero values are open ends
	Since time.Time
	Until time.Time
	// Path keeps only entries that touch this file
	Path string
}

// Filter returns a new log with the entries matching f, in the original order
func (l *Log) Filter(f Filter) *Log {
	entries := l.Entries
	if f.Path != "" {
		entries = l.FileHistory(f.Path)
	}

	filtered := make([]LogEntry, 0, len(entries))
	for _, entry := range entries {
		if f.AuthorEmail != "" && !hasEmail(entry, f.AuthorEmail) {
			continue
		}
		when := time.Unix(entry.AuthorTime, 0)
		if !f.Since.IsZero() && when.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && when.After(f.Until) {
			continue
		}
		filtered = append(filtered, entry)
	}

	return &Log{Entries: filtered}
}

func hasEmail(entry LogEntry, email string) bool {
	if entry.Author.Email == email {
		return true
	}
	for _, co := range entry.CoAuthors {
		if co.Email == email {
			return true
		}
	}
	return false
}
