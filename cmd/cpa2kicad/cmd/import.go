package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/cpa2kicad/internal/config"
	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/importer"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

// importFlags override the loaded config when set
type importFlags struct {
	dielectric string
	edgeWidth  float64
	generator  string
}

func newImportCmd(g *globals) *cobra.Command {
	f := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import <archive.cpa> [output.kicad_pcb]",
		Short: "Convert a CADSTAR PCB archive to a KiCad board",
		Long: `Parses the archive, translates its layer stack and board outlines and
writes a KiCad board file. Without an output path the archive name is used
with a .kicad_pcb extension.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.apply(cmd, g.opts)
			if err != nil {
				return err
			}

			out := outputPath(args[0])
			if len(args) == 2 {
				out = args[1]
			}
			return runImport(cmd, args[0], out, opts)
		},
	}

	cmd.Flags().StringVar(&f.dielectric, "dielectric", "", "dielectric naming: prepreg, core or alternate")
	cmd.Flags().Float64Var(&f.edgeWidth, "edge-width", 0, "default Edge.Cuts line width in mm")
	cmd.Flags().StringVar(&f.generator, "generator", "", "generator name written to the board file")
	return cmd
}

func (f *importFlags) apply(cmd *cobra.Command, opts config.Options) (config.Options, error) {
	if cmd.Flags().Changed("dielectric") {
		opts.Dielectric = f.dielectric
	}
	if cmd.Flags().Changed("edge-width") {
		opts.EdgeCutsWidthMM = f.edgeWidth
	}
	if cmd.Flags().Changed("generator") {
		opts.Generator = f.generator
	}
	if err := opts.Validate(); err != nil {
		return config.Options{}, fmt.Errorf("invalid flags: %w", err)
	}
	return opts, nil
}

func outputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".kicad_pcb"
}

// loadArchive parses an archive and imports it into a fresh board.
func loadArchive(path string, opts config.Options) (*archive.Archive, *pcb.Board, *importer.Report, error) {
	a, err := archive.ParseFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error parsing archive: %w", err)
	}

	board := pcb.NewBoard()
	board.Generator = opts.Generator
	board.General.Title = a.Header.JobTitle

	report, err := importer.Load(a, board, opts.ImporterOptions()...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error importing %s: %w", path, err)
	}
	return a, board, report, nil
}

func runImport(cmd *cobra.Command, in, out string, opts config.Options) error {
	a, board, report, err := loadArchive(in, opts)
	if err != nil {
		return err
	}

	if err := pcb.WriteFile(out, board); err != nil {
		return fmt.Errorf("error writing board: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderImportReport(in, out, a, board, report))
	return nil
}
