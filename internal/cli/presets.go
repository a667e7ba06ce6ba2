package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in and configured presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTYLE\tMODE\tCOLOR\tCONTRAST\tSHARPNESS\tTHICKNESS\tEDGES\tSMOOTH")

			for _, name := range c.config.PresetNames() {
				p, err := c.config.Parameters(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\t%.2f\t%t\t%t\n",
					name, p.Style, p.Composite, p.ColorMode,
					p.ContrastLevel, p.SharpnessLevel, p.ThicknessLevel,
					p.RefineEdges, p.SmoothLines)
			}

			return w.Flush()
		},
	}
}
