package archive

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
)

// RootKeyword heads every PCB archive
const RootKeyword = "CADSTARPCB"

// Parser represents a CADSTAR PCB archive parser
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new archive parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(ArchiveLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses an archive from a reader
func (p *Parser) Parse(r io.Reader) (*Archive, error) {
	return p.parse("", r)
}

// ParseString parses an archive from a string
func (p *Parser) ParseString(input string) (*Archive, error) {
	return p.parse("", strings.NewReader(input))
}

// ParseFile parses an archive from a file path
func (p *Parser) ParseFile(filename string) (*Archive, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.parse(filename, file)
}

func (p *Parser) parse(filename string, r io.Reader) (*Archive, error) {
	tree, err := p.parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	a, err := build(tree.Root)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return a, nil
}

var defaultParser = sync.OnceValues(NewParser)

// Parse parses an archive from a reader with a shared parser.
func Parse(r io.Reader) (*Archive, error) {
	p, err := defaultParser()
	if err != nil {
		return nil, err
	}
	return p.Parse(r)
}

// ParseString parses an archive from a string with a shared parser.
func ParseString(input string) (*Archive, error) {
	p, err := defaultParser()
	if err != nil {
		return nil, err
	}
	return p.ParseString(input)
}

// ParseFile parses an archive file with a shared parser.
func ParseFile(filename string) (*Archive, error) {
	p, err := defaultParser()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(filename)
}

// build converts the generic node tree into the archive model.
func build(root *Node) (*Archive, error) {
	if root.Name != RootKeyword {
		return nil, fmt.Errorf("%s: not a PCB archive: expected %s, got %s", root.Pos, RootKeyword, root.Name)
	}

	a := New()

	if header := root.Child("HEADER"); header != nil {
		if err := parseHeader(header, &a.Header); err != nil {
			return nil, err
		}
	}

	if assignments := root.Child("ASSIGNMENTS"); assignments != nil {
		if err := parseAssignments(assignments, a); err != nil {
			return nil, err
		}
	}

	if layout := root.Child("LAYOUT"); layout != nil {
		for _, boardNode := range layout.Children("BOARD") {
			board, err := parseBoard(boardNode)
			if err != nil {
				return nil, err
			}
			a.Boards = append(a.Boards, board)
		}
	}

	return a, nil
}

// parseHeader extracts format, job title and resolution
// Expected format: (HEADER (FORMAT LAYOUT 21 0) (JOBTITLE "x") (RESOLUTION (METRIC HUNDREDTH MICROMETRE)))
func parseHeader(node *Node, h *Header) error {
	if format := node.Child("FORMAT"); format != nil {
		h.Format = strings.Join(format.Atoms(), " ")
	}
	if title := node.Child("JOBTITLE"); title != nil {
		h.JobTitle, _ = title.Atom(0)
	}
	if res := node.Child("RESOLUTION"); res != nil {
		metric := res.Child("METRIC")
		if metric == nil {
			return res.errorf("only METRIC resolutions are supported")
		}
		switch strings.Join(metric.Atoms(), " ") {
		case "HUNDREDTH MICROMETRE":
			h.Resolution = ResolutionHundredthMicron
		case "TENTH MICROMETRE":
			h.Resolution = ResolutionTenthMicron
		case "MICROMETRE":
			h.Resolution = ResolutionMicron
		case "NANOMETRE":
			h.Resolution = ResolutionNanometre
		default:
			return metric.errorf("unknown resolution %q", strings.Join(metric.Atoms(), " "))
		}
	}
	return nil
}

func parseAssignments(node *Node, a *Archive) error {
	if defs := node.Child("LAYERDEFS"); defs != nil {
		if stack := defs.Child("LAYERSTACK"); stack != nil {
			for _, id := range stack.Atoms() {
				a.LayerStack = append(a.LayerStack, LayerID(id))
			}
		}
		for _, m := range defs.Children("MATERIAL") {
			material, err := parseMaterial(m)
			if err != nil {
				return err
			}
			a.Materials[material.ID] = material
		}
		for _, l := range defs.Children("LAYER") {
			layer, err := parseLayer(l)
			if err != nil {
				return err
			}
			a.Layers[layer.ID] = layer
		}
	}

	if codes := node.Child("CODEDEFS"); codes != nil {
		for _, lc := range codes.Children("LINECODE") {
			lineCode, err := parseLineCode(lc)
			if err != nil {
				return err
			}
			a.LineCodes[lineCode.ID] = lineCode
		}
	}

	if tech := node.Child("TECHNOLOGY"); tech != nil {
		if area := tech.Child("DESIGNAREA"); area != nil {
			pts := area.Children("PT")
			if len(pts) != 2 {
				return area.errorf("expected 2 points, got %d", len(pts))
			}
			var err error
			if a.DesignArea.First, err = pts[0].Point(); err != nil {
				return err
			}
			if a.DesignArea.Second, err = pts[1].Point(); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseMaterial reads (MATERIAL id "name" (CONSTRUCTION) (PERMITTIVITY m e) (LOSSTANGENT m e))
func parseMaterial(node *Node) (*Material, error) {
	id, err := node.Atom(0)
	if err != nil {
		return nil, err
	}
	m := &Material{ID: MaterialID(id)}
	m.Name, _ = node.Atom(1)

	for _, child := range node.Nodes() {
		switch child.Name {
		case "PERMITTIVITY":
			if m.Permittivity, err = child.Decimal(); err != nil {
				return nil, err
			}
		case "LOSSTANGENT":
			if m.LossTangent, err = child.Decimal(); err != nil {
				return nil, err
			}
		case "RESISTIVITY":
			if m.Resistivity, err = child.Decimal(); err != nil {
				return nil, err
			}
		default:
			if m.Kind == "" {
				m.Kind = child.Name
			}
		}
	}
	return m, nil
}

// parseLayer reads (LAYER id "name" (TYPE [(SUBTYPE)]) (MAKE material thickness) (PHYSICAL n))
func parseLayer(node *Node) (*Layer, error) {
	id, err := node.Atom(0)
	if err != nil {
		return nil, err
	}
	l := &Layer{ID: LayerID(id)}
	l.Name, _ = node.Atom(1)

	for _, child := range node.Nodes() {
		switch child.Name {
		case "MAKE":
			material, err := child.Atom(0)
			if err != nil {
				return nil, err
			}
			l.Material = MaterialID(material)
			if len(child.Atoms()) > 1 {
				if l.Thickness, err = child.Int(1); err != nil {
					return nil, err
				}
			}
		case "PHYSICAL":
			n, err := child.Int(0)
			if err != nil {
				return nil, err
			}
			l.Physical = int(n)
		case "DESCRIPTION", "REFPLANE", "SWAPLAYER", "VLAYER":
			// informational only
		default:
			if l.Keyword != "" {
				return nil, child.errorf("layer %s has a second type", l.ID)
			}
			l.Keyword = child.Name
			l.Type = layerTypeKeywords[child.Name]
			if l.Type == LayerTypeNonElec {
				l.Subtype = parseSubtype(child)
			}
		}
	}
	return l, nil
}

func parseSubtype(node *Node) LayerSubtype {
	sub := node.Nodes()
	if len(sub) == 0 {
		return SubtypeNone
	}
	if s, ok := layerSubtypeKeywords[sub[0].Name]; ok {
		return s
	}
	return SubtypeUndefined
}

// parseLineCode reads (LINECODE id "name" (WIDTH w) (STYLE SOLID))
func parseLineCode(node *Node) (*LineCode, error) {
	id, err := node.Atom(0)
	if err != nil {
		return nil, err
	}
	lc := &LineCode{ID: LineCodeID(id), Style: "SOLID"}
	lc.Name, _ = node.Atom(1)

	if width := node.Child("WIDTH"); width != nil {
		if lc.Width, err = width.Int(0); err != nil {
			return nil, err
		}
	}
	if style := node.Child("STYLE"); style != nil {
		lc.Style, _ = style.Atom(0)
	}
	return lc, nil
}

// parseBoard reads (BOARD id linecode (OUTLINE ...))
func parseBoard(node *Node) (Board, error) {
	var b Board
	id, err := node.Atom(0)
	if err != nil {
		return b, err
	}
	b.ID = id
	lineCode, err := node.Atom(1)
	if err != nil {
		return b, err
	}
	b.LineCode = LineCodeID(lineCode)

	for _, child := range node.Nodes() {
		t, ok := shapeKeywords[child.Name]
		if !ok {
			continue
		}
		b.Shape, err = parseShape(child, t)
		if err != nil {
			return b, err
		}
		return b, nil
	}
	return b, node.errorf("board %s has no shape", b.ID)
}

func parseShape(node *Node, t ShapeType) (Shape, error) {
	s := Shape{Type: t}
	for _, child := range node.Nodes() {
		if child.Name == "CUTOUT" {
			vertices, err := parseVertices(child.Nodes())
			if err != nil {
				return s, err
			}
			s.Cutouts = append(s.Cutouts, Cutout{Vertices: vertices})
			continue
		}
		v, err := parseVertex(child)
		if err != nil {
			return s, err
		}
		s.Vertices = append(s.Vertices, v)
	}
	return s, nil
}

func parseVertices(nodes []*Node) ([]Vertex, error) {
	vertices := make([]Vertex, 0, len(nodes))
	for _, n := range nodes {
		v, err := parseVertex(n)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

// parseVertex reads one of
//
//	(PT x y)
//	(CWARC (PT ex ey) (PT cx cy))   (ACWARC ...)
//	(CWSEMI (PT ex ey))             (ACWSEMI ...)
func parseVertex(node *Node) (Vertex, error) {
	t, ok := vertexKeywords[node.Name]
	if !ok {
		return Vertex{}, node.errorf("unknown vertex type")
	}

	v := Vertex{Type: t}
	if t == VertexPoint {
		end, err := node.Point()
		if err != nil {
			return v, err
		}
		v.End = end
		return v, nil
	}

	pts := node.Children("PT")
	want := 2
	if t == VertexClockwiseSemicircle || t == VertexAnticlockwiseSemicircle {
		want = 1
	}
	if len(pts) != want {
		return v, node.errorf("expected %d points, got %d", want, len(pts))
	}

	var err error
	if v.End, err = pts[0].Point(); err != nil {
		return v, err
	}
	if want == 2 {
		if v.Center, err = pts[1].Point(); err != nil {
			return v, err
		}
	}
	return v, nil
}
