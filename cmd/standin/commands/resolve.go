package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/standin/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [targets...]",
		Short: "Run the substitution pipeline over exported shaders",
		Long: `Run the full substitution pipeline for the named targets, or for every
exported original when no targets are given. A target is either a path
to a shader binary or the fingerprint key of a previously exported
original (e.g. 3cd191febcf4b142-vs).`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")

			return c.app.Resolve(cmd.Context(), args, app.ResolveOptions{
				Jobs: jobs,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of shaders to resolve in parallel (0 = number of CPUs)")
	return cmd
}
