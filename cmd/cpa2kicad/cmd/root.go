package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/cpa2kicad/internal/config"
	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/importer"
)

// globals holds the persistent flags and the options resolved from them
type globals struct {
	verbose    bool
	configPath string
	opts       config.Options
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "cpa2kicad",
		Short: "CADSTAR PCB archive to KiCad board converter",
		Long: `cpa2kicad reads a CADSTAR PCB archive (.cpa) and writes a KiCad board
(.kicad_pcb) with the layer stack, design settings and board outline.

Options are read from .cpa2kicad.yaml in the working directory (or --config),
then from CPA2KICAD_* environment variables, then from command flags.

Examples:
  cpa2kicad import board.cpa                      # Writes board.kicad_pcb
  cpa2kicad import board.cpa out.kicad_pcb -v     # With per-layer debug log
  cpa2kicad stackup board.cpa                     # Show the translated stackup
  cpa2kicad inspect out.kicad_pcb                 # Summarise a written board`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd.ErrOrStderr(), g.verbose)

			opts, err := config.Load(g.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			g.opts = opts
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default "+config.FileName+")")

	cmd.AddCommand(newImportCmd(g))
	cmd.AddCommand(newStackupCmd(g))
	cmd.AddCommand(newInspectCmd())
	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	importer.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}
