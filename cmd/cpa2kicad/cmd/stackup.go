package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

// StackupRow is one stackup item as reported by the stackup command
type StackupRow struct {
	Layer       string   `json:"layer"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	ThicknessMM float64  `json:"thickness_mm"`
	Materials   []string `json:"materials,omitempty"`
	EpsilonR    float64  `json:"epsilon_r,omitempty"`
	LossTangent float64  `json:"loss_tangent,omitempty"`
	Sublayers   int      `json:"sublayers"`
}

func newStackupCmd(g *globals) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "stackup <archive.cpa>",
		Short: "Show the KiCad stackup an archive translates to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, board, _, err := loadArchive(args[0], g.opts)
			if err != nil {
				return err
			}

			rows := stackupRows(board)
			if outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			fmt.Fprint(cmd.OutOrStdout(), renderStackup(rows, board))
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}

func stackupRows(board *pcb.Board) []StackupRow {
	items := board.Design.Stackup.Items()
	rows := make([]StackupRow, 0, len(items))

	for _, it := range items {
		row := StackupRow{
			Name:        it.Name,
			Type:        it.TypeName,
			ThicknessMM: pcb.ToMM(it.Thickness()),
			Sublayers:   it.SublayerCount(),
		}
		if it.Type == pcb.StackupDielectric {
			row.Layer = fmt.Sprintf("dielectric %d", it.DielectricID)
		} else {
			row.Layer = it.LayerID.String()
		}

		for _, sl := range it.Sublayers() {
			if sl.Material != "" {
				row.Materials = append(row.Materials, sl.Material)
			}
		}
		first := it.Sublayer(0)
		row.EpsilonR = first.EpsilonR
		row.LossTangent = first.LossTangent

		rows = append(rows, row)
	}
	return rows
}
