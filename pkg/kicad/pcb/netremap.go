package pcb

import (
	"errors"
	"fmt"
)

// NetRemap maps an old net name to the name that replaced it after a
// netlist update.
type NetRemap map[string]string

func padKey(ref, pad string) string {
	return ref + "." + pad
}

// SnapshotPadNets records the net name of every pad, keyed "REF.PAD".
// Pads without a net map to "".
func (b *Board) SnapshotPadNets() map[string]string {
	snap := make(map[string]string)
	for _, fp := range b.Footprints {
		for _, pad := range fp.Pads {
			name := ""
			if pad.Net != nil {
				name = pad.Net.Name
			}
			snap[padKey(fp.Reference, pad.Number)] = name
		}
	}
	return snap
}

// NetRemapSince compares the current pad nets with an earlier snapshot and
// returns old name -> new name for every pad whose net changed.
func (b *Board) NetRemapSince(snap map[string]string) NetRemap {
	remap := make(NetRemap)
	for _, fp := range b.Footprints {
		for _, pad := range fp.Pads {
			old, ok := snap[padKey(fp.Reference, pad.Number)]
			if !ok || old == "" || pad.Net == nil {
				continue
			}
			if pad.Net.Name != old {
				remap[old] = pad.Net.Name
			}
		}
	}
	return remap
}

// ApplyNetRemap moves zones and tracks from renamed nets onto their
// replacements. A target net missing from the board is reported and the
// item is left untouched; the remaining items are still processed.
func (b *Board) ApplyNetRemap(remap NetRemap) error {
	var errs []error

	retarget := func(kind string, i int, cur *Net) *Net {
		if cur == nil {
			return nil
		}
		to, ok := remap[cur.Name]
		if !ok {
			return cur
		}
		net := b.GetNet(to)
		if net == nil {
			errs = append(errs, fmt.Errorf("%s %d: net %q remapped to unknown net %q", kind, i, cur.Name, to))
			return cur
		}
		return net
	}

	for i := range b.Zones {
		b.Zones[i].Net = retarget("zone", i, b.Zones[i].Net)
	}
	for i := range b.Tracks {
		b.Tracks[i].Net = retarget("track", i, b.Tracks[i].Net)
	}

	return errors.Join(errs...)
}
