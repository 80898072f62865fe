package pcb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp/kicadsexp"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantGen     string
		wantErr     bool
	}{
		{
			name:        "valid KiCad 6.0 with generator",
			input:       "(kicad_pcb (version 20211014) (generator pcbnew))",
			wantVersion: 20211014,
			wantGen:     "pcbnew",
		},
		{
			name:        "valid KiCad 6.0 with host",
			input:       "(kicad_pcb (version 20221018) (host pcbnew \"(6.0.10)\"))",
			wantVersion: 20221018,
			wantGen:     "pcbnew",
		},
		{
			name:    "missing version",
			input:   "(kicad_pcb (generator pcbnew))",
			wantErr: true,
		},
		{
			name:    "old version (KiCad 5)",
			input:   "(kicad_pcb (version 20171130))",
			wantErr: true,
		},
		{
			name:        "no generator",
			input:       "(kicad_pcb (version 20211014))",
			wantVersion: 20211014,
			wantGen:     "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sexps, err := kicadsexp.ParseString(tt.input)
			require.NoError(t, err)

			version, gen, err := parseHeader(sexps[0])
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantGen, gen)
		})
	}
}

func TestParseLayers(t *testing.T) {
	input := `(layers
		(0 "F.Cu" signal "Top")
		(1 "In1.Cu" power)
		(31 "B.Cu" signal)
		(44 "Edge.Cuts" user)
	)`

	sexps, err := kicadsexp.ParseString(input)
	require.NoError(t, err)

	layers, err := parseLayers(sexps[0])
	require.NoError(t, err)
	require.Len(t, layers, 4)

	assert.Equal(t, Layer{Number: 0, Name: "F.Cu", Type: "signal", UserName: "Top"}, layers[0])
	assert.Equal(t, "power", layers[1].Type)
	assert.Empty(t, layers[2].UserName)
	assert.Equal(t, 44, layers[3].Number)

	lm := NewLayerMap(layers)
	l, ok := lm.GetByName("Top")
	require.True(t, ok)
	assert.Equal(t, "F.Cu", l.Name)
	assert.True(t, lm.IsCopperLayer("In1.Cu"))
	assert.False(t, lm.IsCopperLayer("Edge.Cuts"))

	summary := Summary{Layers: layers}
	var copper []string
	for _, l := range summary.CopperLayers() {
		copper = append(copper, l.Name)
	}
	assert.Equal(t, []string{"F.Cu", "In1.Cu", "B.Cu"}, copper)
}

func TestParseLayersEmpty(t *testing.T) {
	sexps, err := kicadsexp.ParseString("(layers)")
	require.NoError(t, err)

	_, err = parseLayers(sexps[0])
	assert.Error(t, err)
}

func TestParseStackup(t *testing.T) {
	input := `(stackup
		(layer "F.SilkS" (type "Top Silk Screen"))
		(layer "F.Cu" (type "copper") (thickness 0.035))
		(layer "dielectric 1" (type "prepreg") (thickness 0.1) (material "FR4") (epsilon_r 4.5)
			addsublayer (thickness 0.2) (material "PP"))
		(layer "B.Cu" (type "copper") (thickness 0.035))
	)`

	sexps, err := kicadsexp.ParseString(input)
	require.NoError(t, err)

	stackup, err := parseStackup(sexps[0])
	require.NoError(t, err)
	require.Len(t, stackup, 4)

	assert.Equal(t, "Top Silk Screen", stackup[0].Type)
	assert.Zero(t, stackup[0].Thickness)
	assert.InDelta(t, 0.3, stackup[2].Thickness, 1e-9)
	assert.Equal(t, []string{"FR4", "PP"}, stackup[2].Materials)
}

func TestParseGrLine(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantWidth float64
		wantErr   bool
	}{
		{
			name:      "KiCad 6 width",
			input:     `(gr_line (start 0 0) (end 10 5) (layer "Edge.Cuts") (width 0.05))`,
			wantWidth: 0.05,
		},
		{
			name:      "stroke block",
			input:     `(gr_line (start 0 0) (end 10 5) (stroke (width 0.2) (type dash)) (layer "Edge.Cuts"))`,
			wantWidth: 0.2,
		},
		{
			name:    "missing end",
			input:   `(gr_line (start 0 0) (layer "Edge.Cuts"))`,
			wantErr: true,
		},
		{
			name:    "missing layer",
			input:   `(gr_line (start 0 0) (end 1 1))`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sexps, err := kicadsexp.ParseString(tt.input)
			require.NoError(t, err)

			line, err := parseGrLine(sexps[0])
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, Position{X: 10, Y: 5}, line.End)
			assert.Equal(t, "Edge.Cuts", line.Layer)
			assert.InDelta(t, tt.wantWidth, line.Stroke.Width, 1e-9)
		})
	}
}

func TestParseGrArc(t *testing.T) {
	sexps, err := kicadsexp.ParseString(`(gr_arc (start 1 0) (mid 0 1) (end -1 0) (layer "Edge.Cuts") (width 0.1))`)
	require.NoError(t, err)

	arc, err := parseGrArc(sexps[0])
	require.NoError(t, err)
	assert.Equal(t, Position{X: 0, Y: 1}, arc.Mid)
	assert.Equal(t, Position{X: -1, Y: 0}, arc.End)

	sexps, err = kicadsexp.ParseString(`(gr_arc (start 1 0) (end -1 0) (layer "Edge.Cuts"))`)
	require.NoError(t, err)
	_, err = parseGrArc(sexps[0])
	assert.ErrorContains(t, err, "mid")
}

func TestReadSummaryMinimal(t *testing.T) {
	board := `(kicad_pcb
		(version 20211014)
		(generator pcbnew)
		(general (thickness 1.6))
		(layers (0 "F.Cu" signal) (31 "B.Cu" signal))
		(net 0 "")
		(net 1 "GND")
	)`

	s, err := ReadSummary(strings.NewReader(board))
	require.NoError(t, err)

	assert.Equal(t, 20211014, s.Version)
	assert.Equal(t, "pcbnew", s.Generator)
	assert.InDelta(t, 1.6, s.General.Thickness, 1e-9)
	assert.Len(t, s.Layers, 2)
	assert.Equal(t, []Net{{0, ""}, {1, "GND"}}, s.Nets)
	assert.Empty(t, s.Lines)
}

func TestReadSummaryInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong root", "(kicad_sch (version 20211014))"},
		{"unterminated", "(kicad_pcb (version 20211014)"},
		{"old version", "(kicad_pcb (version 20171130))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSummary(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestNetMap(t *testing.T) {
	nm := NewNetMap([]Net{{0, ""}, {1, "GND"}, {2, "+5V"}})

	net, ok := nm.GetByName("GND")
	require.True(t, ok)
	assert.Equal(t, 1, net.Number)

	_, ok = nm.GetByName("")
	assert.False(t, ok, "empty names are not indexed")

	net, ok = nm.GetByNumber(2)
	require.True(t, ok)
	assert.Equal(t, "+5V", net.Name)
}

func TestSummaryEdgeBoundingBox(t *testing.T) {
	s := Summary{
		Lines: []GrLine{
			{Start: Position{X: 0, Y: 0}, End: Position{X: 10, Y: 0}, Layer: "Edge.Cuts"},
			{Start: Position{X: -40, Y: 0}, End: Position{X: 0, Y: 0}, Layer: "Dwgs.User"},
		},
		Arcs: []GrArc{
			{Start: Position{X: 10, Y: 0}, Mid: Position{X: 12, Y: 3}, End: Position{X: 10, Y: 6}, Layer: "Edge.Cuts"},
		},
	}

	bbox := s.EdgeBoundingBox()
	assert.InDelta(t, 12, bbox.Width(), 1e-9)
	assert.InDelta(t, 6, bbox.Height(), 1e-9)

	assert.True(t, (&Summary{}).EdgeBoundingBox().IsEmpty())
}
