package importer

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

// DrawShape adds the outline of shape and of each of its cutouts to the
// board and returns the number of drawings added. Filled shapes are not
// drawn; they return ErrShapeNotSupported.
func (im *Importer) DrawShape(shape archive.Shape, layer pcb.LayerID, lineCode archive.LineCodeID) (int, error) {
	width := im.lineThickness(lineCode)

	switch shape.Type {
	case archive.ShapeOpen, archive.ShapeOutline:
		n := im.drawVertices(shape.Vertices, layer, width)
		for _, cutout := range shape.Cutouts {
			n += im.drawVertices(cutout.Vertices, layer, width)
		}
		return n, nil

	case archive.ShapeSolid, archive.ShapeHatched:
		return 0, fmt.Errorf("%s: %w", shape.Type, ErrShapeNotSupported)
	}

	return 0, fmt.Errorf("unhandled shape type %d", int(shape.Type))
}

func (im *Importer) drawVertices(vertices []archive.Vertex, layer pcb.LayerID, width int) int {
	drawings := BuildSegments(im.conv, vertices, layer, width)
	for _, d := range drawings {
		im.board.Add(d)
	}
	return len(drawings)
}

// lineThickness resolves a line code to a width in nm. Unknown codes use
// the board default Edge.Cuts width.
func (im *Importer) lineThickness(id archive.LineCodeID) int {
	lc, ok := im.archive.LineCodes[id]
	if !ok {
		return im.board.Design.LineThickness(pcb.EdgeCuts)
	}
	return im.conv.ToInternalLength(lc.Width)
}

// loadBoards draws every board outline on Edge.Cuts, in file order.
func (im *Importer) loadBoards() error {
	for _, b := range im.archive.Boards {
		n, err := im.DrawShape(b.Shape, pcb.EdgeCuts, b.LineCode)
		if errors.Is(err, ErrShapeNotSupported) {
			Logger().Warn("board shape not imported", "board", b.ID, "shape", b.Shape.Type.String())
			im.report.SkippedShapes = append(im.report.SkippedShapes, SkippedShape{Board: b.ID, Type: b.Shape.Type})
			continue
		}
		if err != nil {
			return fmt.Errorf("board %s: %w", b.ID, err)
		}
		im.report.Drawings += n
	}
	return nil
}
