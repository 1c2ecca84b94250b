package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finance-advisor/internal/advice"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [file|-]",
		Short: "Print model output after the cleaning pass",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), advice.Clean(string(data)))
			return nil
		},
	}
}
