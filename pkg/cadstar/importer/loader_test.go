package importer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

const twoLayerArchive = `
(CADSTARPCB
  (HEADER (FORMAT LAYOUT 21 0) (JOBTITLE "Two layer") (RESOLUTION (METRIC HUNDREDTH MICROMETRE)))
  (ASSIGNMENTS
    (LAYERDEFS
      (LAYERSTACK SILK L1 D1 L2 PASTE)
      (MATERIAL FR4 "FR-4" (CONSTRUCTION) (PERMITTIVITY 45 1) (LOSSTANGENT 2 2))
      (LAYER SILK "Silk" (NONELEC (SILKSCREEN)))
      (LAYER L1 "Top Copper" (ELEC) (MAKE CU 3500) (PHYSICAL 1))
      (LAYER D1 "Core" (CONSTRUCTION) (MAKE FR4 150000))
      (LAYER L2 "Bottom Copper" (ELEC) (MAKE CU 3500) (PHYSICAL 2))
      (LAYER PASTE "Paste" (NONELEC (PASTE))))
    (CODEDEFS (LINECODE LC1 "Outline" (WIDTH 2000) (STYLE SOLID)))
    (TECHNOLOGY (UNITS METRIC) (DESIGNAREA (PT 0 0) (PT 1000000 1000000))))
  (LAYOUT
    (BOARD BOARD1 LC1
      (OUTLINE (PT 400000 400000) (PT 600000 400000) (PT 600000 600000)
        (CWARC (PT 400000 600000) (PT 500000 600000)) (PT 400000 400000)))
    (BOARD BOARD2 LC1 (HATCHED (PT 0 0) (PT 10 10) (PT 0 10)))))
`

func TestLoadEndToEnd(t *testing.T) {
	a, err := archive.ParseString(twoLayerArchive)
	require.NoError(t, err)

	board := pcb.NewBoard()
	report, err := Load(a, board)
	require.NoError(t, err)

	assert.Equal(t, 2, report.CopperLayers)
	assert.Equal(t, 5, report.StackupItems)
	assert.Equal(t, 4, report.Drawings)
	assert.Equal(t, []SkippedShape{{Board: "BOARD2", Type: archive.ShapeHatched}}, report.SkippedShapes)

	var buf bytes.Buffer
	require.NoError(t, pcb.Write(&buf, board))

	s, err := pcb.ReadSummary(&buf)
	require.NoError(t, err)

	assert.Equal(t, pcb.FileFormatVersion, s.Version)
	assert.InDelta(t, 1.57, s.General.Thickness, 1e-9)

	names := map[string]string{}
	for _, l := range s.Layers {
		names[l.Name] = l.UserName
	}
	assert.Equal(t, "Top_Copper", names["F.Cu"])
	assert.Equal(t, "Bottom_Copper", names["B.Cu"])
	// silk above the first copper layer goes to the bottom side
	assert.Contains(t, names, "B.SilkS")
	assert.Contains(t, names, "F.Paste")
	assert.NotContains(t, names, "F.SilkS")

	require.Len(t, s.Stackup, 5)
	assert.Equal(t, "B.SilkS", s.Stackup[0].Name)
	assert.Equal(t, "dielectric 1", s.Stackup[2].Name)
	assert.Equal(t, "prepreg", s.Stackup[2].Type)
	assert.Equal(t, []string{"FR-4"}, s.Stackup[2].Materials)
	assert.InDelta(t, 1.5, s.Stackup[2].Thickness, 1e-9)

	require.Len(t, s.Lines, 3)
	require.Len(t, s.Arcs, 1)
	for _, l := range s.Lines {
		assert.Equal(t, "Edge.Cuts", l.Layer)
		assert.InDelta(t, 0.02, l.Stroke.Width, 1e-9)
	}

	// 2 mm square centred on the origin; the clockwise arc dips to the centre
	arc := s.Arcs[0]
	assert.Equal(t, pcb.Position{X: 1, Y: -1}, arc.Start)
	assert.Equal(t, pcb.Position{X: 0, Y: 0}, arc.Mid)
	assert.Equal(t, pcb.Position{X: -1, Y: -1}, arc.End)
}

func TestLoadDesignTooLarge(t *testing.T) {
	a := fourLayerArchive()
	a.DesignArea = archive.DesignArea{Second: archive.Point{X: MaxDesignSize, Y: 10}}

	board := pcb.NewBoard()
	report, err := Load(a, board)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrDesignTooLarge))

	assert.Zero(t, board.Design.Stackup.Len())
	assert.Equal(t, 2, board.CopperLayerCount())
}

func TestLoadStopsOnStackupError(t *testing.T) {
	a := stackArchive(layer("D1", "Core", archive.LayerTypeConstruction))
	a.Boards = []archive.Board{{ID: "B1", Shape: archive.Shape{Type: archive.ShapeOpen, Vertices: square(0, 0, 10)}}}

	board := pcb.NewBoard()
	_, err := Load(a, board)
	assert.True(t, errors.Is(err, ErrNoElectricalLayers))
	assert.Empty(t, board.Drawings)
}

func TestLoadLogsSkippedShapes(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	a, err := archive.ParseString(twoLayerArchive)
	require.NoError(t, err)
	_, err = Load(a, pcb.NewBoard())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "board shape not imported")
	assert.Contains(t, out, "board=BOARD2")
	assert.Contains(t, out, "import complete")
	assert.Contains(t, out, "copper layer")
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
