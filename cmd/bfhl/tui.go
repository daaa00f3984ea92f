package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-bfhl/internal/tui"
	"github.com/goliatone/go-bfhl/pkg/view"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the form in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), view.New(a.client()))
		},
	}
}
