package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/mycelium/pipeline"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mycelium version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), pipeline.Version)
			return nil
		},
	}
}
