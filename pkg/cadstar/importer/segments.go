package importer

import (
	"math"

	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

// NormalizeAnglePos maps an angle in degrees into [0, 360).
func NormalizeAnglePos(a float64) float64 {
	for a < 0 {
		a += 360
	}
	for a >= 360 {
		a -= 360
	}
	return a
}

// NormalizeAngleNeg maps an angle in degrees into (-360, 0].
func NormalizeAngleNeg(a float64) float64 {
	for a <= -360 {
		a += 360
	}
	for a > 0 {
		a -= 360
	}
	return a
}

// polarAngle returns the direction of v in degrees, in [0, 360).
func polarAngle(v pcb.Point) float64 {
	return NormalizeAnglePos(math.Atan2(float64(v.Y), float64(v.X)) * 180 / math.Pi)
}

// BuildSegments turns a vertex sequence into board drawings, one per
// vertex after the first. The first vertex is always used as a plain
// point. Fewer than two vertices produce nothing.
func BuildSegments(conv UnitConverter, vertices []archive.Vertex, layer pcb.LayerID, width int) []pcb.Drawing {
	if len(vertices) < 2 {
		return nil
	}

	drawings := make([]pcb.Drawing, 0, len(vertices)-1)
	prev := vertices[0]

	for _, cur := range vertices[1:] {
		start := conv.ToInternal(prev.End)
		end := conv.ToInternal(cur.End)

		d := pcb.Drawing{Start: start, Width: width, Layer: layer}

		switch cur.Type {
		case archive.VertexPoint:
			d.Shape = pcb.ShapeSegment
			d.End = end

		case archive.VertexClockwiseArc, archive.VertexAnticlockwiseArc,
			archive.VertexClockwiseSemicircle, archive.VertexAnticlockwiseSemicircle:
			center := conv.ToInternal(cur.Center)
			if cur.Type == archive.VertexClockwiseSemicircle || cur.Type == archive.VertexAnticlockwiseSemicircle {
				center = start.Midpoint(end)
			}

			sweep := polarAngle(end.Sub(center)) - polarAngle(start.Sub(center))
			// TODO: two opposite semicircles sharing end points should become a circle
			if cur.Type.IsClockwise() {
				sweep = NormalizeAnglePos(sweep)
			} else {
				sweep = NormalizeAngleNeg(sweep)
			}

			d.Shape = pcb.ShapeArc
			d.Center = center
			d.Angle = sweep
			d.End = end

		default:
			Logger().Warn("unknown vertex type, drawing a straight segment",
				"type", int(cur.Type))
			d.Shape = pcb.ShapeSegment
			d.End = end
		}

		drawings = append(drawings, d)
		prev = cur
	}

	return drawings
}
