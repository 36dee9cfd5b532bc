package main

import (
	"github.com/spf13/cobra"

	"github.com/aristath/wfgraph/internal/diagram"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the diagram formats selectable by output file extension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeLines(cmd.OutOrStdout(), diagram.Formats)
		},
	}
}
