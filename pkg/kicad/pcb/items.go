package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp/kicadsexp"
)

// TrackItem is a copper segment as read back from a board file, in mm.
type TrackItem struct {
	Start Position
	End   Position
	Width float64
	Layer string
	Net   string // empty when unconnected
}

// ZoneItem is a zone outline as read back from a board file. Zones on
// several layers yield one item per layer.
type ZoneItem struct {
	Net     string
	Layer   string
	Outline []Position
}

// parseSegment extracts a track segment
// Expected format: (segment (start x y) (end x y) (width w) (layer "layer") (net n))
func parseSegment(node kicadsexp.Sexp, nets *NetMap) (*TrackItem, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected segment list, got leaf")
	}

	track := &TrackItem{Width: ToMM(DefaultCopperWidth)}

	var err error
	if track.Start, err = parsePoint(node, "start"); err != nil {
		return nil, err
	}
	if track.End, err = parsePoint(node, "end"); err != nil {
		return nil, err
	}

	if widthNode, found := sexp.FindNode(node, "width"); found {
		if track.Width, err = sexp.GetFloat(widthNode, 1); err != nil {
			return nil, fmt.Errorf("failed to parse width: %w", err)
		}
	}

	if track.Layer, err = parseLayerRef(node); err != nil {
		return nil, err
	}

	track.Net = netRef(node, nets)
	return track, nil
}

// netRef resolves the optional (net n) child to a net name.
func netRef(node kicadsexp.Sexp, nets *NetMap) string {
	netNode, found := sexp.FindNode(node, "net")
	if !found {
		return ""
	}
	number, err := sexp.GetInt(netNode, 1)
	if err != nil {
		return ""
	}
	if net, ok := nets.GetByNumber(number); ok {
		return net.Name
	}
	return ""
}

// parseZone extracts a zone outline
// Expected format: (zone (net n) (net_name "x") (layer "F.Cu") (polygon (pts (xy x y) ...)))
// or with (layers "F.Cu" "B.Cu") for multi-layer zones.
func parseZone(node kicadsexp.Sexp, nets *NetMap) ([]ZoneItem, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected zone list, got leaf")
	}

	base := ZoneItem{Net: netRef(node, nets)}
	if base.Net == "" {
		if nameNode, found := sexp.FindNode(node, "net_name"); found {
			base.Net, _ = sexp.GetString(nameNode, 1)
		}
	}

	if polyNode, found := sexp.FindNode(node, "polygon"); found {
		if ptsNode, found := sexp.FindNode(polyNode, "pts"); found {
			base.Outline = parsePoints(ptsNode)
		}
	}

	var layers []string
	if layersNode, found := sexp.FindNode(node, "layers"); found {
		for _, item := range sexp.GetListItems(layersNode) {
			if v, ok := kicadsexp.Value(item); ok {
				layers = append(layers, v)
			}
		}
	} else {
		layer, err := parseLayerRef(node)
		if err != nil {
			return nil, err
		}
		layers = []string{layer}
	}

	zones := make([]ZoneItem, 0, len(layers))
	for _, layer := range layers {
		z := base
		z.Layer = layer
		zones = append(zones, z)
	}
	return zones, nil
}

// parsePoints extracts the (xy x y) pairs of a pts node
func parsePoints(ptsNode kicadsexp.Sexp) []Position {
	var points []Position
	for _, item := range sexp.FindAllNodes(ptsNode, "xy") {
		if p, err := sexp.GetPositionXY(item); err == nil {
			points = append(points, p)
		}
	}
	return points
}
