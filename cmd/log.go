package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/gitmine/internal/export"
	"github.com/Yates-Labs/gitmine/internal/gitlog"
)

const dateLayout = "2006-01-02"

var (
	exportFile  string
	authorEmail string
	sinceDate   string
	untilDate   string
	filePath    string
)

var logCmd = &cobra.Command{
	Use:   "log [path]",
	Short: "Mine the commit history of a repository",
	Long: `Mine every commit reachable from HEAD of the repository containing path
(default: the current directory) and print one row per commit, or export
the full log as JSON or YAML.

Merge commits have no file changes unless --include-merges is set, in which
case their changes against every parent are listed.

Examples:
  gitmine log
  gitmine log /path/to/repo --include-merges
  gitmine log --format json --export history.json
  gitmine log --author alice@example.com --since 2024-01-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
	addMineFlags(logCmd)
	logCmd.Flags().StringVar(&authorEmail, "author", "", "only commits authored or co-authored by this email")
	logCmd.Flags().StringVar(&sinceDate, "since", "", "only commits authored on or after this date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&untilDate, "until", "", "only commits authored before this date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&filePath, "file", "", "only commits touching this file")
}

// addMineFlags registers the flags shared by commands that mine a repository
func addMineFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("include-merges", false, "include file changes of merge commits against each parent")
	cmd.Flags().String("format", "table", "output format: table, json, yaml")
	cmd.Flags().StringVar(&exportFile, "export", "", "write output to a file instead of stdout: --export <filename>")
}

func runLog(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter()
	if err != nil {
		return err
	}

	history, err := mine(args)
	if err != nil {
		return err
	}
	history = history.Filter(filter)

	return writeOutput(func(w io.Writer) error {
		if strings.EqualFold(cfg.Format, "table") {
			outputLogTable(w, history)
			return nil
		}
		return export.ExportLog(history, cfg.Format, w)
	}, len(history.Entries), "commits")
}

func mine(args []string) (*gitlog.Log, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	history, err := gitlog.Mine(context.Background(), path, cfg.MineConfig())
	if err != nil {
		return nil, fmt.Errorf("mining failed: %w", err)
	}
	return history, nil
}

func buildFilter() (gitlog.Filter, error) {
	filter := gitlog.Filter{
		AuthorEmail: authorEmail,
		Path:        filePath,
	}

	if sinceDate != "" {
		since, err := time.Parse(dateLayout, sinceDate)
		if err != nil {
			return filter, fmt.Errorf("invalid --since date %q: %w", sinceDate, err)
		}
		filter.Since = since
	}
	if untilDate != "" {
		until, err := time.Parse(dateLayout, untilDate)
		if err != nil {
			return filter, fmt.Errorf("invalid --until date %q: %w", untilDate, err)
		}
		filter.Until = until.Add(-time.Second)
	}

	return filter, nil
}

// writeOutput sends the output to the export file when one is set, otherwise stdout
func writeOutput(write func(io.Writer) error, count int, what string) error {
	if exportFile == "" {
		return write(os.Stdout)
	}

	file, err := os.Create(exportFile)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("✓ Exported %d %s to %s\n", count, what, exportFile)
	return nil
}

func outputLogTable(w io.Writer, history *gitlog.Log) {
	if len(history.Entries) == 0 {
		fmt.Fprintln(w, "No commits found in repository")
		return
	}

	t := &table{columns: []column{
		{title: "COMMIT", width: 10, color: idColor},
		{title: "AUTHOR", width: 20, color: textColor},
		{title: "DATE", width: 18, color: textColor},
		{title: "FILES", width: 7, color: numberColor, numeric: true},
		{title: "+", width: 8, color: numberColor, numeric: true},
		{title: "-", width: 8, color: numberColor, numeric: true},
		{title: "SUMMARY", width: 50, color: textColor},
	}}

	totalAdded, totalDeleted, merges := 0, 0, 0
	for _, entry := range history.Entries {
		added, deleted := 0, 0
		for _, fc := range entry.FileChanges {
			added += fc.LinesAdded
			deleted += fc.LinesDeleted
		}
		totalAdded += added
		totalDeleted += deleted
		if entry.IsMerge() {
			merges++
		}

		t.addRow(
			shortID(entry.ID),
			entry.Author.Name,
			time.Unix(entry.AuthorTime, 0).Format("Jan 02 2006 15:04"),
			fmt.Sprintf("%d", len(entry.FileChanges)),
			fmt.Sprintf("%d", added),
			fmt.Sprintf("%d", deleted),
			entry.Summary,
		)
	}
	t.render(w)

	renderSummary(w, fmt.Sprintf("Total: %d commits (%d merges), +%d -%d lines",
		len(history.Entries), merges, totalAdded, totalDeleted))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
