package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/standin/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove exported artifacts and stale binaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stale, _ := cmd.Flags().GetBool("stale")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{}

			switch {
			case all:
				opts.Exports = true
				opts.Stale = true
			case stale:
				opts.Stale = true
			default:
				// Default behavior: clean exported artifacts
				opts.Exports = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("stale", "s", false, "Remove fixes-directory binaries whose source has changed")
	cmd.Flags().BoolP("all", "a", false, "Remove exported artifacts and stale binaries")

	return cmd
}
