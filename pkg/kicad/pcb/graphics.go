package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp/kicadsexp"
)

// parseStroke extracts line appearance. KiCad 6 writes a bare (width w) on
// board graphics; later versions nest it in (stroke (width w) (type solid)).
func parseStroke(node kicadsexp.Sexp) (sexp.Stroke, error) {
	stroke := sexp.Stroke{Width: 0.15, Type: "solid"}

	if strokeNode, found := sexp.FindNode(node, "stroke"); found {
		node = strokeNode
		if typeNode, found := sexp.FindNode(strokeNode, "type"); found {
			if strokeType, err := sexp.GetString(typeNode, 1); err == nil {
				stroke.Type = strokeType
			}
		}
	}

	if widthNode, found := sexp.FindNode(node, "width"); found {
		width, err := sexp.GetFloat(widthNode, 1)
		if err != nil {
			return stroke, fmt.Errorf("failed to parse stroke width: %w", err)
		}
		stroke.Width = width
	}

	return stroke, nil
}

// parsePoint extracts a required (key x y) child.
func parsePoint(node kicadsexp.Sexp, key string) (Position, error) {
	pointNode, found := sexp.FindNode(node, key)
	if !found {
		return Position{}, fmt.Errorf("missing required '%s' position", key)
	}
	pos, err := sexp.GetPositionXY(pointNode)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse %s position: %w", key, err)
	}
	return pos, nil
}

func parseLayerRef(node kicadsexp.Sexp) (string, error) {
	layerNode, found := sexp.FindNode(node, "layer")
	if !found {
		return "", fmt.Errorf("missing required 'layer' field")
	}
	layer, err := sexp.GetString(layerNode, 1)
	if err != nil {
		return "", fmt.Errorf("failed to parse layer: %w", err)
	}
	return layer, nil
}

// parseGrLine extracts a line graphic element
// Expected format: (gr_line (start x1 y1) (end x2 y2) (layer "Edge.Cuts") (width 0.05))
func parseGrLine(node kicadsexp.Sexp) (*GrLine, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected gr_line list, got leaf")
	}

	line := &GrLine{}
	var err error

	if line.Start, err = parsePoint(node, "start"); err != nil {
		return nil, err
	}
	if line.End, err = parsePoint(node, "end"); err != nil {
		return nil, err
	}
	if line.Stroke, err = parseStroke(node); err != nil {
		return nil, err
	}
	if line.Layer, err = parseLayerRef(node); err != nil {
		return nil, err
	}

	return line, nil
}

// parseGrArc extracts an arc graphic element
// Expected format: (gr_arc (start x y) (mid x y) (end x y) (layer "Edge.Cuts") (width 0.05))
func parseGrArc(node kicadsexp.Sexp) (*GrArc, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected gr_arc list, got leaf")
	}

	arc := &GrArc{}
	var err error

	if arc.Start, err = parsePoint(node, "start"); err != nil {
		return nil, err
	}
	if arc.Mid, err = parsePoint(node, "mid"); err != nil {
		return nil, err
	}
	if arc.End, err = parsePoint(node, "end"); err != nil {
		return nil, err
	}
	if arc.Stroke, err = parseStroke(node); err != nil {
		return nil, err
	}
	if arc.Layer, err = parseLayerRef(node); err != nil {
		return nil, err
	}

	return arc, nil
}
