package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recap/internal/meeting"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show a meeting job and its stage results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := ctx.client().meeting(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintf(out, "Job:     %s\n", job.ID)
			fmt.Fprintf(out, "Status:  %s\n", colorJobStatus(string(job.Status), colorize))
			fmt.Fprintf(out, "Created: %s\n", job.CreatedAt.Local().Format(time.DateTime))
			if job.Error != "" {
				fmt.Fprintf(out, "Error:   %s\n", job.Error)
			}
			fmt.Fprintln(out, renderTable([]string{"Stage", "Success", "Service", "Error"}, buildStageRows(job)))
			return nil
		},
	}
}

func buildStageRows(job *meeting.Job) [][]string {
	rows := make([][]string, 0, 5)
	for _, name := range meeting.StageNames() {
		result := job.Stages.Get(name)
		if result == nil {
			rows = append(rows, []string{string(name), "-", "-", ""})
			continue
		}
		rows = append(rows, []string{
			string(name),
			yesNo(result.Success),
			string(result.Metadata.Service),
			result.Error,
		})
	}
	return rows
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func colorJobStatus(status string, colorize bool) string {
	if !colorize {
		return status
	}
	switch strings.ToLower(status) {
	case "completed":
		return ansiGreen + status + ansiReset
	case "failed":
		return ansiRed + status + ansiReset
	case "processing":
		return ansiYellow + status + ansiReset
	default:
		return status
	}
}
