package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render [file|-]",
		Short: "Normalize and render a saved planning service response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			r, err := root.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			r.Render(json.RawMessage(data))
			return nil
		},
	}
}
