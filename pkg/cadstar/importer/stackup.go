package importer

import (
	"fmt"

	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

// Stackup type names of the side-dependent technical layers
const (
	TypeNameTopSilk     = "Top Silk Screen"
	TypeNameBottomSilk  = "Bottom Silk Screen"
	TypeNameTopPaste    = "Top Solder Paste"
	TypeNameBottomPaste = "Bottom Solder Paste"
	TypeNameTopMask     = "Top Solder Mask"
	TypeNameBottomMask  = "Bottom Solder Mask"
)

// dielectricBuilder collects consecutive CONSTRUCTION layers into one
// stackup item, one sub-layer each.
type dielectricBuilder struct {
	item     *pcb.StackupItem
	sublayer int
}

// stackupState is the running state of a layer stack walk
type stackupState struct {
	enabled        pcb.LSet
	copperCount    int
	dielectrics    int
	lastElectrical int // stackup index, -1 until the first copper layer
	pending        *dielectricBuilder
}

// loadBoardStackup walks the archive layer stack from top to bottom and
// rebuilds the board stackup, enabled layers and copper layer names.
func (im *Importer) loadBoardStackup() error {
	b := im.board
	stackup := &b.Design.Stackup

	stackup.RemoveAll()
	st := &stackupState{
		enabled:        pcb.NewLSet(pcb.FCrtYd, pcb.BCrtYd, pcb.Margin, pcb.EdgeCuts),
		lastElectrical: -1,
	}
	b.SetEnabledLayers(st.enabled)

	for _, id := range im.archive.LayerStack {
		layer, ok := im.archive.Layers[id]
		if !ok {
			return ioError(ErrUnexpectedLayer, fmt.Sprintf("Layer stack references undefined layer '%s'.", id))
		}

		if st.pending != nil && layer.Type != archive.LayerTypeConstruction {
			im.commitDielectric(st)
		}

		if err := im.translateLayer(st, layer); err != nil {
			return err
		}
	}

	if st.pending != nil {
		im.commitDielectric(st)
	}

	if st.lastElectrical < 0 {
		return ioError(ErrNoElectricalLayers, "The layer stack has no electrical layers.")
	}

	im.remapBottomCopper(st)

	b.SetEnabledLayers(st.enabled)
	b.SetVisibleLayers(st.enabled)
	b.SetCopperLayerCount(st.copperCount)
	b.General.Thickness = pcb.ToMM(stackup.BoardThickness())

	im.report.CopperLayers = st.copperCount
	im.report.StackupItems = stackup.Len()
	return nil
}

func (im *Importer) translateLayer(st *stackupState, layer *archive.Layer) error {
	log := Logger().With("layer", string(layer.ID), "name", layer.Name)

	switch layer.Type {
	case archive.LayerTypeAllDoc, archive.LayerTypeAllElec, archive.LayerTypeAllLayer,
		archive.LayerTypeAssCompCopp, archive.LayerTypeNoLayer:
		return ioError(ErrUnexpectedLayer, fmt.Sprintf("Unexpected layer '%s' in layer stack.", layer.Name))

	case archive.LayerTypeJumper:
		return im.addCopper(st, layer, pcb.LayerTypeJumper)
	case archive.LayerTypeElec:
		return im.addCopper(st, layer, pcb.LayerTypeSignal)
	case archive.LayerTypePower:
		return im.addCopper(st, layer, pcb.LayerTypePower)

	case archive.LayerTypeConstruction:
		if st.pending == nil {
			st.dielectrics++
			item := pcb.NewStackupItem(pcb.StackupDielectric)
			item.DielectricID = st.dielectrics
			st.pending = &dielectricBuilder{item: item}
		} else {
			st.pending.sublayer = st.pending.item.AddSublayer()
		}
		st.pending.item.Name = layer.Name
		im.enrich(st.pending.item, st.pending.sublayer, layer)
		log.Debug("dielectric sub-layer", "dielectric", st.dielectrics, "sublayer", st.pending.sublayer)
		return nil

	case archive.LayerTypeDoc:
		log.Debug("documentation layer skipped")
		return nil

	case archive.LayerTypeNonElec:
		return im.addTechnical(st, layer, log.Debug)
	}

	return ioError(ErrUnknownLayerType, fmt.Sprintf("Unknown layer type '%s' for layer '%s'.", layer.Keyword, layer.Name))
}

func (im *Importer) addCopper(st *stackupState, layer *archive.Layer, t pcb.LayerType) error {
	st.copperCount++
	id, ok := pcb.CopperLayerForOrdinal(st.copperCount)
	if !ok {
		return ioError(ErrTooManyCopperLayers, fmt.Sprintf(
			"Layer '%s' is copper layer %d; at most %d copper layers are supported.",
			layer.Name, st.copperCount, pcb.MaxCopperLayers))
	}

	item := pcb.NewStackupItem(pcb.StackupCopper)
	item.LayerID = id
	item.Name = layer.Name
	item.TypeName = pcb.TypeNameCopper
	im.enrich(item, 0, layer)
	im.commit(st, layer, item)

	b := im.board
	b.SetLayerType(id, t)
	if !b.SetLayerName(id, layer.Name) {
		Logger().Warn("layer name not usable, keeping canonical name",
			"layer", string(layer.ID), "name", layer.Name, "kicad_layer", id.String())
	}
	st.lastElectrical = b.Design.Stackup.Len() - 1
	im.copperLayers[layer.Physical] = layer.ID

	Logger().Debug("copper layer", "layer", string(layer.ID), "name", layer.Name,
		"kicad_layer", id.String(), "type", t.String())
	return nil
}

// addTechnical handles NONELEC layers. Paste, silk and mask layers go on
// the top side once any copper layer has been seen, else on the bottom.
func (im *Importer) addTechnical(st *stackupState, layer *archive.Layer, debug func(string, ...any)) error {
	top := st.copperCount > 0

	var itemType pcb.StackupItemType
	var id pcb.LayerID
	var typeName string

	switch layer.Subtype {
	case archive.SubtypeAssembly, archive.SubtypePlacement, archive.SubtypeNone:
		debug("non-electrical layer skipped", "subtype", layer.Subtype.String())
		return nil

	case archive.SubtypePaste:
		itemType = pcb.StackupSolderPaste
		id, typeName = pickSide(top, pcb.FPaste, TypeNameTopPaste, pcb.BPaste, TypeNameBottomPaste)

	case archive.SubtypeSilkscreen:
		itemType = pcb.StackupSilkscreen
		id, typeName = pickSide(top, pcb.FSilkS, TypeNameTopSilk, pcb.BSilkS, TypeNameBottomSilk)

	case archive.SubtypeSolderResist:
		itemType = pcb.StackupSolderMask
		id, typeName = pickSide(top, pcb.FMask, TypeNameTopMask, pcb.BMask, TypeNameBottomMask)

	default:
		return ioError(ErrUnknownLayerSubtype, fmt.Sprintf("Unknown subtype of layer '%s'.", layer.Name))
	}

	item := pcb.NewStackupItem(itemType)
	item.LayerID = id
	item.Name = layer.Name
	item.TypeName = typeName
	im.enrich(item, 0, layer)
	im.commit(st, layer, item)

	debug("technical layer", "kicad_layer", id.String())
	return nil
}

func pickSide(top bool, topID pcb.LayerID, topName string, bottomID pcb.LayerID, bottomName string) (pcb.LayerID, string) {
	if top {
		return topID, topName
	}
	return bottomID, bottomName
}

// commit appends a non-dielectric item and enables its layer.
func (im *Importer) commit(st *stackupState, layer *archive.Layer, item *pcb.StackupItem) {
	im.board.Design.Stackup.Add(item)
	st.enabled = st.enabled.With(item.LayerID)
	im.board.SetEnabledLayers(st.enabled)
	im.layerMap[layer.ID] = item.LayerID
}

func (im *Importer) commitDielectric(st *stackupState) {
	item := st.pending.item
	item.TypeName = im.classify(item.DielectricID, item)
	im.board.Design.Stackup.Add(item)
	st.pending = nil
}

// enrich copies thickness and, when the material is known, its name,
// permittivity and loss tangent onto sub-layer i.
func (im *Importer) enrich(item *pcb.StackupItem, i int, layer *archive.Layer) {
	p := item.Sublayer(i)
	if m, ok := im.archive.Materials[layer.Material]; ok && layer.Material != "" {
		p.Material = m.Name
		p.EpsilonR = m.Permittivity
		p.LossTangent = m.LossTangent
	}
	p.Thickness = im.conv.ToInternalLength(layer.Thickness)
	item.SetSublayer(i, p)
}

// remapBottomCopper moves the last electrical layer onto B.Cu, carrying
// its name and layer type.
func (im *Importer) remapBottomCopper(st *stackupState) {
	b := im.board
	item := b.Design.Stackup.Item(st.lastElectrical)
	old := item.LayerID
	if old == pcb.BCu {
		return
	}

	layerType := b.LayerType(old)
	b.ClearLayerName(old)
	b.ClearLayerType(old)

	st.enabled = st.enabled.Without(old).With(pcb.BCu)
	b.SetEnabledLayers(st.enabled)

	item.LayerID = pcb.BCu
	b.SetLayerType(pcb.BCu, layerType)
	b.SetLayerName(pcb.BCu, item.Name)

	for id, l := range im.layerMap {
		if l == old {
			im.layerMap[id] = pcb.BCu
		}
	}

	Logger().Debug("last copper layer moved to B.Cu", "from", old.String(), "name", item.Name)
}
