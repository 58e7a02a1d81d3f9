package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "report <job-id>",
		Short: "Download the meeting report workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.client().report(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			output := strings.TrimSpace(outputFlag)
			if output == "" {
				output = fmt.Sprintf("recap-%s.xlsx", args[0])
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path")
	return cmd
}
