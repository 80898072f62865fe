package pcb

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version (6.0 = 20211014)
const MinSupportedVersion = 20211014

// Summary is the high-level content of a KiCad board file: enough to check
// what an import produced without rebuilding the full board model.
type Summary struct {
	Version   int
	Generator string
	General   General
	Layers    []Layer
	Stackup   []StackupLayer
	Nets      []Net
	Lines     []GrLine
	Arcs      []GrArc
	Tracks    []TrackItem
	Zones     []ZoneItem
}

// StackupLayer is one (layer ...) entry of the setup stackup.
type StackupLayer struct {
	Name      string
	Type      string
	Thickness float64 // mm, summed over sub-layers
	Materials []string
}

// CopperLayers returns the copper layers of the layer table in file order.
func (s *Summary) CopperLayers() []Layer {
	lm := NewLayerMap(s.Layers)
	var copper []Layer
	for _, l := range s.Layers {
		if lm.IsCopperLayer(l.Name) {
			copper = append(copper, l)
		}
	}
	return copper
}

// ReadSummaryFile reads a board summary from a file.
func ReadSummaryFile(filename string) (*Summary, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadSummary(file)
}

// ReadSummary parses a KiCad board from an io.Reader into a Summary.
func ReadSummary(r io.Reader) (*Summary, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root := sexps[0]

	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if rootName != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", rootName)
	}

	version, generator, err := parseHeader(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	summary := &Summary{
		Version:   version,
		Generator: generator,
	}

	if generalNode, found := sexp.FindNode(root, "general"); found {
		general, err := parseGeneral(generalNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse general section: %w", err)
		}
		summary.General = *general
	}
	if tb, found := sexp.FindNode(root, "title_block"); found {
		if titleNode, found := sexp.FindNode(tb, "title"); found {
			summary.General.Title, _ = sexp.GetString(titleNode, 1)
		}
	}

	if layersNode, found := sexp.FindNode(root, "layers"); found {
		layers, err := parseLayers(layersNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layers section: %w", err)
		}
		summary.Layers = layers
	}

	if setupNode, found := sexp.FindNode(root, "setup"); found {
		if stackupNode, found := sexp.FindNode(setupNode, "stackup"); found {
			stackup, err := parseStackup(stackupNode)
			if err != nil {
				return nil, fmt.Errorf("failed to parse stackup: %w", err)
			}
			summary.Stackup = stackup
		}
	}

	nets, err := parseNets(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nets: %w", err)
	}
	summary.Nets = nets

	for _, lineNode := range sexp.FindAllNodes(root, "gr_line") {
		line, err := parseGrLine(lineNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse gr_line: %w", err)
		}
		summary.Lines = append(summary.Lines, *line)
	}

	for _, arcNode := range sexp.FindAllNodes(root, "gr_arc") {
		arc, err := parseGrArc(arcNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse gr_arc: %w", err)
		}
		summary.Arcs = append(summary.Arcs, *arc)
	}

	netMap := NewNetMap(summary.Nets)
	for _, segNode := range sexp.FindAllNodes(root, "segment") {
		track, err := parseSegment(segNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse segment: %w", err)
		}
		summary.Tracks = append(summary.Tracks, *track)
	}

	for _, zoneNode := range sexp.FindAllNodes(root, "zone") {
		zones, err := parseZone(zoneNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse zone: %w", err)
		}
		summary.Zones = append(summary.Zones, zones...)
	}

	return summary, nil
}

// parseHeader extracts version and generator information from the root node
// Expected format: (kicad_pcb (version 20211014) (generator pcbnew) ...)
func parseHeader(root kicadsexp.Sexp) (version int, generator string, err error) {
	versionNode, found := sexp.FindNode(root, "version")
	if !found {
		return 0, "", fmt.Errorf("missing required 'version' field")
	}

	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	// Must be KiCad 6.0 or later
	if ver < MinSupportedVersion {
		return 0, "", fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	gen := "unknown"
	if hostNode, found := sexp.FindNode(root, "host"); found {
		// Format: (host pcbnew "(6.0.0)")
		if toolName, err := sexp.GetString(hostNode, 1); err == nil {
			gen = toolName
		}
	} else if genNode, found := sexp.FindNode(root, "generator"); found {
		if generatorName, err := sexp.GetString(genNode, 1); err == nil {
			gen = generatorName
		}
	}

	return ver, gen, nil
}

// parseGeneral extracts general board properties
// Expected format: (general (thickness 1.6) ...)
func parseGeneral(node kicadsexp.Sexp) (*General, error) {
	general := &General{}

	if thicknessNode, found := sexp.FindNode(node, "thickness"); found {
		thickness, err := sexp.GetFloat(thicknessNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse thickness: %w", err)
		}
		general.Thickness = thickness
	}

	return general, nil
}

// parseLayers extracts layer definitions
// Expected format: (layers (0 "F.Cu" signal) (31 "B.Cu" signal "Bottom") ...)
func parseLayers(node kicadsexp.Sexp) ([]Layer, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected (layers ...) list")
	}

	layerNodes := sexp.GetListItems(node)
	if len(layerNodes) == 0 {
		return nil, fmt.Errorf("no layers defined")
	}

	var layers []Layer

	for _, layerNode := range layerNodes {
		if layerNode.IsLeaf() {
			continue
		}

		number, err := sexp.GetInt(layerNode, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer number: %w", err)
		}

		name, err := sexp.GetString(layerNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer name: %w", err)
		}

		layerType, err := sexp.GetString(layerNode, 2)
		if err != nil {
			// Layer type is optional in some cases
			layerType = "user"
		}

		userName, _ := sexp.GetString(layerNode, 3)

		layers = append(layers, Layer{
			Number:   number,
			Name:     name,
			Type:     layerType,
			UserName: userName,
		})
	}

	return layers, nil
}

// parseStackup extracts the physical stack
// Expected format: (stackup (layer "F.Cu" (type "copper") (thickness 0.035)) ...)
func parseStackup(node kicadsexp.Sexp) ([]StackupLayer, error) {
	var stackup []StackupLayer

	for _, layerNode := range sexp.FindAllNodes(node, "layer") {
		name, err := sexp.GetString(layerNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stackup layer name: %w", err)
		}

		sl := StackupLayer{Name: name}
		if typeNode, found := sexp.FindNode(layerNode, "type"); found {
			sl.Type, _ = sexp.GetString(typeNode, 1)
		}

		// Sub-layers repeat thickness and material after each addsublayer
		for _, thicknessNode := range sexp.FindAllNodes(layerNode, "thickness") {
			thickness, err := sexp.GetFloat(thicknessNode, 1)
			if err != nil {
				return nil, fmt.Errorf("failed to parse thickness of %q: %w", name, err)
			}
			sl.Thickness += thickness
		}
		for _, materialNode := range sexp.FindAllNodes(layerNode, "material") {
			if material, err := sexp.GetString(materialNode, 1); err == nil {
				sl.Materials = append(sl.Materials, material)
			}
		}

		stackup = append(stackup, sl)
	}

	return stackup, nil
}

// parseNets extracts net definitions from the root node
// Expected format: (net 0 "") (net 1 "GND") ...
func parseNets(root kicadsexp.Sexp) ([]Net, error) {
	var nets []Net

	for _, netNode := range sexp.FindAllNodes(root, "net") {
		number, err := sexp.GetInt(netNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse net number: %w", err)
		}

		// Name is optional (net 0 often has empty name)
		name, _ := sexp.GetString(netNode, 2)

		nets = append(nets, Net{Number: number, Name: name})
	}

	return nets, nil
}
