package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/engine/resolver"
	"go.trai.ch/zerr"
)

func (c *CLI) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [targets...]",
		Short: "Export artifacts for exported shaders",
		Long: `Write the requested artifacts for the named targets, or for every
exported original when no targets are given. Existing exports are
overwritten.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			binaries, _ := cmd.Flags().GetBool("binaries")
			listings, _ := cmd.Flags().GetBool("listings")
			level, _ := cmd.Flags().GetInt("level")
			fixed, _ := cmd.Flags().GetBool("fixed")

			if level < int(domain.ExportOff) || level > int(domain.ExportSourceWithRecompiled) {
				return zerr.With(domain.ErrInvalidExportLevel, "level", level)
			}

			return c.app.Export(cmd.Context(), args, resolver.ExportOptions{
				Binaries: binaries,
				Listings: listings,
				Level:    domain.ExportLevel(level),
				Fixed:    fixed,
			})
		},
	}
	cmd.Flags().BoolP("binaries", "b", false, "Export the pristine original binaries")
	cmd.Flags().BoolP("listings", "l", true, "Export disassembly listings of the originals")
	cmd.Flags().IntP("level", "L", 0, "Decompiled source export level: 0 off, 1 source, 2 +original listing, 3 +recompiled listing")
	cmd.Flags().BoolP("fixed", "f", false, "Apply the interpolation patch and place patched sources in the fixes directory")
	return cmd
}
