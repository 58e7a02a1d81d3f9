package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the daemon is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			address := ctx.apiAddress()
			if err := ctx.client().health(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon at %s is healthy\n", address)
			return nil
		},
	}
}
