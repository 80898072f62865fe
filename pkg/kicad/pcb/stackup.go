package pcb

// Stackup item type names KiCad uses in the (stackup ...) section
const (
	TypeNameCopper  = "copper"
	TypeNameCore    = "core"
	TypeNamePrepreg = "prepreg"
)

// StackupItemType classifies a physical layer in the stackup
type StackupItemType int

const (
	StackupUndefined StackupItemType = iota
	StackupCopper
	StackupDielectric
	StackupSilkscreen
	StackupSolderMask
	StackupSolderPaste
)

func (t StackupItemType) String() string {
	switch t {
	case StackupCopper:
		return "copper"
	case StackupDielectric:
		return "dielectric"
	case StackupSilkscreen:
		return "silkscreen"
	case StackupSolderMask:
		return "soldermask"
	case StackupSolderPaste:
		return "solderpaste"
	}
	return "undefined"
}

// DielectricParams holds the physical properties of one sub-layer.
// Non-dielectric items have exactly one.
type DielectricParams struct {
	Thickness   int     // nm
	Material    string  // empty when unknown
	EpsilonR    float64 // relative permittivity, 0 when unknown
	LossTangent float64 // 0 when unknown
}

// StackupItem is one physical layer of the board
type StackupItem struct {
	Type         StackupItemType
	LayerID      LayerID // UndefinedLayer for dielectrics
	Name         string
	TypeName     string // "copper", "prepreg", "core", "Top Silk Screen", ...
	DielectricID int    // 1-based dielectric counter, 0 for other items

	sublayers []DielectricParams
}

// NewStackupItem creates an item with a single, empty sub-layer.
func NewStackupItem(t StackupItemType) *StackupItem {
	return &StackupItem{
		Type:      t,
		LayerID:   UndefinedLayer,
		sublayers: make([]DielectricParams, 1),
	}
}

// SublayerCount returns how many dielectric sub-layers the item holds.
func (it *StackupItem) SublayerCount() int {
	return len(it.sublayers)
}

// AddSublayer appends an empty sub-layer and returns its index.
func (it *StackupItem) AddSublayer() int {
	it.sublayers = append(it.sublayers, DielectricParams{})
	return len(it.sublayers) - 1
}

// Sublayer returns the parameters of sub-layer i.
func (it *StackupItem) Sublayer(i int) DielectricParams {
	if i < 0 || i >= len(it.sublayers) {
		return DielectricParams{}
	}
	return it.sublayers[i]
}

// Sublayers returns a copy of all sub-layer parameters.
func (it *StackupItem) Sublayers() []DielectricParams {
	out := make([]DielectricParams, len(it.sublayers))
	copy(out, it.sublayers)
	return out
}

// SetSublayer replaces the parameters of sub-layer i.
func (it *StackupItem) SetSublayer(i int, p DielectricParams) {
	if i < 0 || i >= len(it.sublayers) {
		return
	}
	it.sublayers[i] = p
}

// Thickness returns the summed thickness of all sub-layers in nm.
func (it *StackupItem) Thickness() int {
	total := 0
	for _, sl := range it.sublayers {
		total += sl.Thickness
	}
	return total
}

// Stackup is the ordered top-to-bottom list of physical layers
type Stackup struct {
	items []*StackupItem
}

// Add appends an item at the bottom of the stack.
func (s *Stackup) Add(item *StackupItem) {
	s.items = append(s.items, item)
}

// RemoveAll clears the stack.
func (s *Stackup) RemoveAll() {
	s.items = nil
}

// Len returns the number of items.
func (s *Stackup) Len() int {
	return len(s.items)
}

// Item returns the item at index i, or nil.
func (s *Stackup) Item(i int) *StackupItem {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// Items returns the items top to bottom.
func (s *Stackup) Items() []*StackupItem {
	return s.items
}

// CountByType returns how many items have type t.
func (s *Stackup) CountByType(t StackupItemType) int {
	n := 0
	for _, it := range s.items {
		if it.Type == t {
			n++
		}
	}
	return n
}

// BoardThickness returns the thickness of the copper and dielectric items
// in nm. Mask, paste and silk layers do not count.
func (s *Stackup) BoardThickness() int {
	total := 0
	for _, it := range s.items {
		if it.Type == StackupCopper || it.Type == StackupDielectric {
			total += it.Thickness()
		}
	}
	return total
}
