// Package importer converts a parsed CADSTAR PCB archive into a KiCad
// board: layer stack, design settings and board outline.
package importer

import (
	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

// DielectricClassifier picks the stackup type name ("prepreg" or "core")
// of a dielectric. ordinal is the 1-based dielectric counter from the top.
type DielectricClassifier func(ordinal int, item *pcb.StackupItem) string

// PrepregDielectrics names every dielectric "prepreg".
func PrepregDielectrics(int, *pcb.StackupItem) string { return pcb.TypeNamePrepreg }

// CoreDielectrics names every dielectric "core".
func CoreDielectrics(int, *pcb.StackupItem) string { return pcb.TypeNameCore }

// AlternatingDielectrics starts with prepreg at the top and alternates,
// the usual build of a laminated multilayer board.
func AlternatingDielectrics(ordinal int, _ *pcb.StackupItem) string {
	if ordinal%2 == 0 {
		return pcb.TypeNameCore
	}
	return pcb.TypeNamePrepreg
}

// Option configures an Importer
type Option func(*Importer)

// WithDielectricClassifier replaces the default all-prepreg classifier.
func WithDielectricClassifier(c DielectricClassifier) Option {
	return func(im *Importer) {
		if c != nil {
			im.classify = c
		}
	}
}

// WithEdgeCutsWidth sets the board default Edge.Cuts line width in nm,
// used for outlines whose line code is unknown.
func WithEdgeCutsWidth(nm int) Option {
	return func(im *Importer) {
		im.edgeWidth = nm
	}
}

// SkippedShape records a board shape the importer could not draw
type SkippedShape struct {
	Board string
	Type  archive.ShapeType
}

// Report summarises an import
type Report struct {
	CopperLayers  int
	StackupItems  int
	Drawings      int
	SkippedShapes []SkippedShape
}

// Importer holds the state of one archive-to-board conversion. It is
// single-use: create a new one per import.
type Importer struct {
	archive *archive.Archive
	board   *pcb.Board
	conv    UnitConverter

	classify  DielectricClassifier
	edgeWidth int

	layerMap     map[archive.LayerID]pcb.LayerID
	copperLayers map[int]archive.LayerID
	report       Report
}

// NewImporter prepares an import of a into board.
func NewImporter(a *archive.Archive, board *pcb.Board, opts ...Option) *Importer {
	im := &Importer{
		archive:      a,
		board:        board,
		conv:         NewUnitConverter(a.DesignArea, a.UnitMultiplier()),
		classify:     PrepregDielectrics,
		layerMap:     make(map[archive.LayerID]pcb.LayerID),
		copperLayers: make(map[int]archive.LayerID),
	}
	for _, opt := range opts {
		opt(im)
	}
	if im.edgeWidth > 0 {
		board.Design.SetLineThickness(pcb.EdgeCuts, im.edgeWidth)
	}
	return im
}

// Load imports a into board. On error the board is left partially
// modified and should be discarded.
func Load(a *archive.Archive, board *pcb.Board, opts ...Option) (*Report, error) {
	return NewImporter(a, board, opts...).Load()
}

// Load runs the import: design size check, layer stack, board outlines.
func (im *Importer) Load() (*Report, error) {
	if err := CheckDesignSize(im.archive.DesignArea, im.archive.UnitMultiplier()); err != nil {
		return nil, err
	}

	if err := im.loadBoardStackup(); err != nil {
		return nil, err
	}

	if err := im.loadBoards(); err != nil {
		return nil, err
	}

	// TODO: import board attributes and group membership once the archive
	// parser reads ATTR and GROUP nodes.

	Logger().Info("import complete",
		"copper_layers", im.report.CopperLayers,
		"stackup_items", im.report.StackupItems,
		"drawings", im.report.Drawings,
		"skipped_shapes", len(im.report.SkippedShapes))

	report := im.report
	return &report, nil
}

// Converter returns the coordinate converter of this import.
func (im *Importer) Converter() UnitConverter {
	return im.conv
}

// KiCadLayer returns the board layer an archive layer was mapped to.
// Unmapped layers land on Cmts.User.
func (im *Importer) KiCadLayer(id archive.LayerID) pcb.LayerID {
	if l, ok := im.layerMap[id]; ok {
		return l
	}
	return pcb.CmtsUser
}

// CopperLayers returns the archive layer id of each physical copper layer.
func (im *Importer) CopperLayers() map[int]archive.LayerID {
	out := make(map[int]archive.LayerID, len(im.copperLayers))
	for k, v := range im.copperLayers {
		out[k] = v
	}
	return out
}
