package pcb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writerBoard() *Board {
	b := NewBoard()
	b.SetEnabledLayers(NewLSet(FCu, BCu, FSilkS, EdgeCuts))
	b.SetLayerName(FCu, "Top Copper")
	b.SetLayerType(BCu, LayerTypePower)
	b.General.Thickness = 0.27

	silk := NewStackupItem(StackupSilkscreen)
	silk.LayerID = FSilkS
	silk.TypeName = "Top Silk Screen"

	top := NewStackupItem(StackupCopper)
	top.LayerID = FCu
	top.TypeName = TypeNameCopper
	top.SetSublayer(0, DielectricParams{Thickness: 35000})

	diel := NewStackupItem(StackupDielectric)
	diel.TypeName = TypeNamePrepreg
	diel.DielectricID = 1
	diel.SetSublayer(0, DielectricParams{Thickness: 100000, Material: "FR4", EpsilonR: 4.5, LossTangent: 0.02})
	diel.SetSublayer(diel.AddSublayer(), DielectricParams{Thickness: 100000, Material: "PP"})

	bottom := NewStackupItem(StackupCopper)
	bottom.LayerID = BCu
	bottom.TypeName = TypeNameCopper
	bottom.SetSublayer(0, DielectricParams{Thickness: 35000})

	for _, it := range []*StackupItem{silk, top, diel, bottom} {
		b.Design.Stackup.Add(it)
	}

	b.AddNet("GND")
	b.Add(Drawing{Shape: ShapeSegment, Start: Point{0, 0}, End: Point{FromMM(25.4), 0}, Width: DefaultEdgeWidth, Layer: EdgeCuts})
	b.Add(Drawing{Shape: ShapeArc, Start: Point{FromMM(25.4), 0}, Center: Point{FromMM(25.4), FromMM(5)}, Angle: 180, Width: DefaultEdgeWidth, Layer: EdgeCuts})
	return b
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, writerBoard()))

	s, err := ReadSummary(&buf)
	require.NoError(t, err)

	assert.Equal(t, FileFormatVersion, s.Version)
	assert.Equal(t, DefaultGenerator, s.Generator)
	assert.InDelta(t, 0.27, s.General.Thickness, 1e-9)

	require.Len(t, s.Layers, 4)
	assert.Equal(t, Layer{Number: 0, Name: "F.Cu", Type: "signal", UserName: "Top_Copper"}, s.Layers[0])
	assert.Equal(t, "power", s.Layers[1].Type)
	assert.Equal(t, "user", s.Layers[3].Type)

	require.Len(t, s.Stackup, 4)
	assert.Equal(t, "F.SilkS", s.Stackup[0].Name)
	assert.Equal(t, "dielectric 1", s.Stackup[2].Name)
	assert.Equal(t, "prepreg", s.Stackup[2].Type)
	assert.InDelta(t, 0.2, s.Stackup[2].Thickness, 1e-9)
	assert.Equal(t, []string{"FR4", "PP"}, s.Stackup[2].Materials)

	assert.Equal(t, []Net{{0, ""}, {1, "GND"}}, s.Nets)

	require.Len(t, s.Lines, 1)
	assert.Equal(t, Position{X: 25.4, Y: 0}, s.Lines[0].End)
	assert.Equal(t, "Edge.Cuts", s.Lines[0].Layer)
	assert.InDelta(t, 0.05, s.Lines[0].Stroke.Width, 1e-9)

	require.Len(t, s.Arcs, 1)
	assert.InDelta(t, 30.4, s.Arcs[0].Mid.X, 1e-6)
	assert.InDelta(t, 10, s.Arcs[0].End.Y, 1e-6)
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, writerBoard()))
	out := buf.String()

	assert.Contains(t, out, "(kicad_pcb\n  (version 20211014)")
	assert.Contains(t, out, `(0 "F.Cu" signal "Top_Copper")`)
	assert.Contains(t, out, `(gr_line (start 0 0) (end 25.4 0) (layer "Edge.Cuts") (width 0.05))`)
	assert.Contains(t, out, "(loss_tangent 0.02) addsublayer")
}

func TestWriteGeneratorWithSpaces(t *testing.T) {
	b := writerBoard()
	b.Generator = "My Tool"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, b))
	assert.Contains(t, buf.String(), `(generator "My Tool")`)

	s, err := ReadSummary(&buf)
	require.NoError(t, err)
	assert.Equal(t, "My Tool", s.Generator)
	assert.Equal(t, FileFormatVersion, s.Version)
}
