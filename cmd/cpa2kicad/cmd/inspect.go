package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <board.kicad_pcb>",
		Short: "Summarise a KiCad board file",
		Long: `Reads a .kicad_pcb file and prints its version, generator, layer table,
stackup and the number of graphic lines and arcs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pcb.ReadSummaryFile(args[0])
			if err != nil {
				return fmt.Errorf("error reading board: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSummary(args[0], s))
			return nil
		},
	}
}
