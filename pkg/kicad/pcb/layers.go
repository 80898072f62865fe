package pcb

import (
	"fmt"
	"math/bits"
	"strings"
)

// LayerID identifies a board layer. Values match KiCad 6 layer numbering
// so they can be written to the (layers ...) table unchanged.
type LayerID int

const (
	UndefinedLayer LayerID = -1

	FCu LayerID = 0 // In1Cu..In30Cu are 1..30
	BCu LayerID = 31

	BAdhes   LayerID = 32
	FAdhes   LayerID = 33
	BPaste   LayerID = 34
	FPaste   LayerID = 35
	BSilkS   LayerID = 36
	FSilkS   LayerID = 37
	BMask    LayerID = 38
	FMask    LayerID = 39
	DwgsUser LayerID = 40
	CmtsUser LayerID = 41
	Eco1User LayerID = 42
	Eco2User LayerID = 43
	EdgeCuts LayerID = 44
	Margin   LayerID = 45
	BCrtYd   LayerID = 46
	FCrtYd   LayerID = 47
	BFab     LayerID = 48
	FFab     LayerID = 49

	LayerCount = 50
)

// MaxInnerCopper is the highest inner copper layer number (In30.Cu).
const MaxInnerCopper = 30

// MaxCopperLayers is the number of copper layers a board can hold.
const MaxCopperLayers = MaxInnerCopper + 2

var technicalLayerNames = map[LayerID]string{
	BAdhes:   "B.Adhes",
	FAdhes:   "F.Adhes",
	BPaste:   "B.Paste",
	FPaste:   "F.Paste",
	BSilkS:   "B.SilkS",
	FSilkS:   "F.SilkS",
	BMask:    "B.Mask",
	FMask:    "F.Mask",
	DwgsUser: "Dwgs.User",
	CmtsUser: "Cmts.User",
	Eco1User: "Eco1.User",
	Eco2User: "Eco2.User",
	EdgeCuts: "Edge.Cuts",
	Margin:   "Margin",
	BCrtYd:   "B.CrtYd",
	FCrtYd:   "F.CrtYd",
	BFab:     "B.Fab",
	FFab:     "F.Fab",
}

// InnerCopper returns the id of inner copper layer n (1-based).
func InnerCopper(n int) LayerID {
	if n < 1 || n > MaxInnerCopper {
		return UndefinedLayer
	}
	return LayerID(n)
}

// CopperLayerForOrdinal maps a 1-based copper ordinal counted from the top
// of the stack onto a layer id: 1 is F.Cu, 2..31 are In1..In30 and 32 is
// B.Cu. Ordinals outside 1..32 have no layer.
func CopperLayerForOrdinal(ordinal int) (LayerID, bool) {
	switch {
	case ordinal == 1:
		return FCu, true
	case ordinal >= 2 && ordinal <= MaxInnerCopper+1:
		return InnerCopper(ordinal - 1), true
	case ordinal == MaxCopperLayers:
		return BCu, true
	}
	return UndefinedLayer, false
}

// IsCopper reports whether id is one of the copper layers.
func (id LayerID) IsCopper() bool {
	return id >= FCu && id <= BCu
}

// IsValid reports whether id names a real layer.
func (id LayerID) IsValid() bool {
	return id >= FCu && id < LayerCount
}

// String returns KiCad's canonical layer name, e.g. "F.Cu" or "In3.Cu".
func (id LayerID) String() string {
	switch {
	case id == FCu:
		return "F.Cu"
	case id == BCu:
		return "B.Cu"
	case id > FCu && id < BCu:
		return fmt.Sprintf("In%d.Cu", int(id))
	}
	if name, ok := technicalLayerNames[id]; ok {
		return name
	}
	return "UNDEFINED"
}

// LayerIDFromName is the inverse of LayerID.String.
func LayerIDFromName(name string) (LayerID, bool) {
	for id := FCu; id < LayerCount; id++ {
		if strings.EqualFold(id.String(), name) {
			return id, true
		}
	}
	return UndefinedLayer, false
}

// LayerType is the electrical role of a copper layer.
type LayerType int

const (
	LayerTypeUndefined LayerType = iota
	LayerTypeSignal
	LayerTypePower
	LayerTypeMixed
	LayerTypeJumper
)

// String returns the keyword KiCad uses in the (layers ...) table.
func (t LayerType) String() string {
	switch t {
	case LayerTypeSignal:
		return "signal"
	case LayerTypePower:
		return "power"
	case LayerTypeMixed:
		return "mixed"
	case LayerTypeJumper:
		return "jumper"
	}
	return "user"
}

// ParseLayerType converts a layer table keyword back to a LayerType.
func ParseLayerType(s string) LayerType {
	switch s {
	case "signal":
		return LayerTypeSignal
	case "power":
		return LayerTypePower
	case "mixed":
		return LayerTypeMixed
	case "jumper":
		return LayerTypeJumper
	}
	return LayerTypeUndefined
}

// LSet is a set of layers stored as a bit mask.
type LSet uint64

// NewLSet returns a set holding the given layers.
func NewLSet(ids ...LayerID) LSet {
	var s LSet
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

// With returns the set plus id. Invalid ids are ignored.
func (s LSet) With(id LayerID) LSet {
	if !id.IsValid() {
		return s
	}
	return s | 1<<uint(id)
}

// Without returns the set minus id.
func (s LSet) Without(id LayerID) LSet {
	if !id.IsValid() {
		return s
	}
	return s &^ (1 << uint(id))
}

// Has reports whether id is in the set.
func (s LSet) Has(id LayerID) bool {
	return id.IsValid() && s&(1<<uint(id)) != 0
}

// Len returns the number of layers in the set.
func (s LSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Seq returns the layers in ascending id order.
func (s LSet) Seq() []LayerID {
	ids := make([]LayerID, 0, s.Len())
	for id := FCu; id < LayerCount; id++ {
		if s.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// CopperCount returns the number of copper layers in the set.
func (s LSet) CopperCount() int {
	n := 0
	for _, id := range s.Seq() {
		if id.IsCopper() {
			n++
		}
	}
	return n
}
