package pcb

// EdgeBoundingBox returns the bounding box of the Edge.Cuts drawings only.
func (b *Board) EdgeBoundingBox() BoundingBox {
	bbox := NewBoundingBox()
	for _, d := range b.DrawingsOn(EdgeCuts) {
		for _, p := range d.extent() {
			bbox.Expand(p.MM())
		}
	}
	return bbox
}

// extent returns the points a drawing's bounds must include. For arcs,
// the start, mid and end points are used; this is approximate but good
// enough for a bounding box.
func (d Drawing) extent() []Point {
	if d.Shape == ShapeArc {
		return []Point{d.Start, d.ArcMid(), d.ArcEnd()}
	}
	return []Point{d.Start, d.End}
}

// EdgeBoundingBox returns the bounding box of the Edge.Cuts lines and arcs
// read back from a board file.
func (s *Summary) EdgeBoundingBox() BoundingBox {
	bbox := NewBoundingBox()
	for _, l := range s.Lines {
		if onEdgeCuts(l.Layer) {
			bbox.Expand(l.Start)
			bbox.Expand(l.End)
		}
	}
	for _, a := range s.Arcs {
		if onEdgeCuts(a.Layer) {
			bbox.Expand(a.Start)
			bbox.Expand(a.Mid)
			bbox.Expand(a.End)
		}
	}
	return bbox
}

func onEdgeCuts(layer string) bool {
	id, ok := LayerIDFromName(layer)
	return ok && id == EdgeCuts
}
