package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

func pt(x, y int64) archive.Vertex {
	return archive.Vertex{Type: archive.VertexPoint, End: archive.Point{X: x, Y: y}}
}

func arc(t archive.VertexType, ex, ey, cx, cy int64) archive.Vertex {
	return archive.Vertex{Type: t, End: archive.Point{X: ex, Y: ey}, Center: archive.Point{X: cx, Y: cy}}
}

func TestNormalizeAngles(t *testing.T) {
	tests := []struct {
		in      float64
		wantPos float64
		wantNeg float64
	}{
		{0, 0, 0},
		{90, 90, -270},
		{-90, 270, -90},
		{360, 0, 0},
		{-360, 0, 0},
		{540, 180, -180},
		{-180, 180, -180},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantPos, NormalizeAnglePos(tt.in), "pos(%v)", tt.in)
		assert.Equal(t, tt.wantNeg, NormalizeAngleNeg(tt.in), "neg(%v)", tt.in)
	}
}

func TestBuildSegmentsTooFewVertices(t *testing.T) {
	conv := UnitConverter{Scale: 10}
	assert.Empty(t, BuildSegments(conv, nil, pcb.EdgeCuts, 100))
	assert.Empty(t, BuildSegments(conv, []archive.Vertex{pt(1, 1)}, pcb.EdgeCuts, 100))
}

func TestBuildSegmentsLine(t *testing.T) {
	conv := UnitConverter{Scale: 10}
	got := BuildSegments(conv, []archive.Vertex{pt(0, 0), pt(100, 50), pt(100, -20)}, pcb.EdgeCuts, 2000)

	require.Len(t, got, 2)
	assert.Equal(t, pcb.Drawing{
		Shape: pcb.ShapeSegment,
		Start: pcb.Point{X: 0, Y: 0},
		End:   pcb.Point{X: 1000, Y: -500},
		Width: 2000,
		Layer: pcb.EdgeCuts,
	}, got[0])
	assert.Equal(t, got[0].End, got[1].Start, "segments chain")
	assert.Equal(t, pcb.Point{X: 1000, Y: 200}, got[1].End)
}

func TestBuildSegmentsArcs(t *testing.T) {
	conv := UnitConverter{Scale: 10}

	tests := []struct {
		name       string
		vertices   []archive.Vertex
		wantAngle  float64
		wantCenter pcb.Point
		wantEnd    pcb.Point
	}{
		{
			name:       "clockwise quarter",
			vertices:   []archive.Vertex{pt(10, 0), arc(archive.VertexClockwiseArc, 0, -10, 0, 0)},
			wantAngle:  90,
			wantCenter: pcb.Point{},
			wantEnd:    pcb.Point{X: 0, Y: 100},
		},
		{
			name:       "clockwise three quarters",
			vertices:   []archive.Vertex{pt(10, 0), arc(archive.VertexClockwiseArc, 0, 10, 0, 0)},
			wantAngle:  270,
			wantCenter: pcb.Point{},
			wantEnd:    pcb.Point{X: 0, Y: -100},
		},
		{
			name:       "anticlockwise quarter",
			vertices:   []archive.Vertex{pt(10, 0), arc(archive.VertexAnticlockwiseArc, 0, 10, 0, 0)},
			wantAngle:  -90,
			wantCenter: pcb.Point{},
			wantEnd:    pcb.Point{X: 0, Y: -100},
		},
		{
			name:       "clockwise semicircle",
			vertices:   []archive.Vertex{pt(0, 0), {Type: archive.VertexClockwiseSemicircle, End: archive.Point{X: 20, Y: 0}}},
			wantAngle:  180,
			wantCenter: pcb.Point{X: 100, Y: 0},
			wantEnd:    pcb.Point{X: 200, Y: 0},
		},
		{
			name:       "anticlockwise semicircle",
			vertices:   []archive.Vertex{pt(0, 0), {Type: archive.VertexAnticlockwiseSemicircle, End: archive.Point{X: 20, Y: 0}}},
			wantAngle:  -180,
			wantCenter: pcb.Point{X: 100, Y: 0},
			wantEnd:    pcb.Point{X: 200, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSegments(conv, tt.vertices, pcb.DwgsUser, 500)
			require.Len(t, got, 1)

			d := got[0]
			assert.Equal(t, pcb.ShapeArc, d.Shape)
			assert.Equal(t, pcb.Point{X: int(tt.vertices[0].End.X) * 10, Y: -int(tt.vertices[0].End.Y) * 10}, d.Start)
			assert.Equal(t, tt.wantCenter, d.Center)
			assert.InDelta(t, tt.wantAngle, d.Angle, 1e-9)
			assert.Equal(t, tt.wantEnd, d.ArcEnd())
			assert.Equal(t, 500, d.Width)
			assert.Equal(t, pcb.DwgsUser, d.Layer)
		})
	}
}

func TestBuildSegmentsFirstVertexIsPoint(t *testing.T) {
	conv := UnitConverter{Scale: 1}
	vertices := []archive.Vertex{
		arc(archive.VertexClockwiseArc, 5, 5, 1000, 1000),
		pt(10, 5),
	}

	got := BuildSegments(conv, vertices, pcb.EdgeCuts, 1)
	require.Len(t, got, 1)
	assert.Equal(t, pcb.ShapeSegment, got[0].Shape)
	assert.Equal(t, pcb.Point{X: 5, Y: -5}, got[0].Start)
}

func TestBuildSegmentsUnknownVertexType(t *testing.T) {
	conv := UnitConverter{Scale: 1}
	vertices := []archive.Vertex{pt(0, 0), {Type: archive.VertexType(99), End: archive.Point{X: 3, Y: 4}}}

	got := BuildSegments(conv, vertices, pcb.EdgeCuts, 1)
	require.Len(t, got, 1)
	assert.Equal(t, pcb.ShapeSegment, got[0].Shape)
	assert.Equal(t, pcb.Point{X: 3, Y: -4}, got[0].End)
}
