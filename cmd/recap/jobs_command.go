package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List submitted meetings and their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := ctx.client().meetings(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No meetings recorded")
				return nil
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := buildMeetingRows(summaries, colorize)
			fmt.Fprintln(out, renderTable([]string{"Job", "Status", "Created", "Error"}, rows))
			return nil
		},
	}
}

func buildMeetingRows(summaries []meetingSummary, colorize bool) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, []string{
			summary.JobID,
			colorJobStatus(summary.Status, colorize),
			summary.CreatedAt.Local().Format(time.DateTime),
			summary.Error,
		})
	}
	return rows
}
