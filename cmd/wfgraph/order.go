package main

import (
	"github.com/spf13/cobra"
)

func newOrderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print tasks with every dependency before its dependents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGraph(cmd.Context())
			if err != nil {
				return err
			}
			order, err := g.Order()
			if err != nil {
				return err
			}
			return writeLines(cmd.OutOrStdout(), order)
		},
	}
}
