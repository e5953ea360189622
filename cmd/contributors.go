package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/gitmine/internal/export"
	"github.com/Yates-Labs/gitmine/internal/gitlog"
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors [path]",
	Short: "Summarize commits and co-authorships per contributor",
	Long: `Mine the repository containing path and aggregate, per author identity,
the number of commits, the number of Co-authored-by trailers naming them,
and the lines added and deleted by their commits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContributors,
}

func init() {
	rootCmd.AddCommand(contributorsCmd)
	addMineFlags(contributorsCmd)
}

func runContributors(cmd *cobra.Command, args []string) error {
	history, err := mine(args)
	if err != nil {
		return err
	}
	contributors := history.Contributors()

	return writeOutput(func(w io.Writer) error {
		if strings.EqualFold(cfg.Format, "table") {
			outputContributorTable(w, contributors)
			return nil
		}
		return export.ExportContributors(contributors, cfg.Format, w)
	}, len(contributors), "contributors")
}

func outputContributorTable(w io.Writer, contributors []gitlog.Contributor) {
	if len(contributors) == 0 {
		fmt.Fprintln(w, "No contributors found in repository")
		return
	}

	t := &table{columns: []column{
		{title: "NAME", width: 24, color: idColor},
		{title: "EMAIL", width: 32, color: textColor},
		{title: "COMMITS", width: 9, color: numberColor, numeric: true},
		{title: "CO-AUTHORED", width: 13, color: numberColor, numeric: true},
		{title: "+", width: 9, color: numberColor, numeric: true},
		{title: "-", width: 9, color: numberColor, numeric: true},
	}}

	commits := 0
	for _, c := range contributors {
		commits += c.Commits
		t.addRow(
			c.User.Name,
			c.User.Email,
			fmt.Sprintf("%d", c.Commits),
			fmt.Sprintf("%d", c.CoAuthored),
			fmt.Sprintf("%d", c.LinesAdded),
			fmt.Sprintf("%d", c.LinesDeleted),
		)
	}
	t.render(w)

	renderSummary(w, fmt.Sprintf("Total: %d contributors, %d commits", len(contributors), commits))
}
