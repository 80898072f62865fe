package importer

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

// MaxDesignSize is the largest extent, in nm, a board can span: the full
// range of a signed 32-bit coordinate.
const MaxDesignSize = int64(math.MaxInt32) + -int64(math.MinInt32)

// UnitConverter maps archive coordinates onto board coordinates. The
// archive origin moves to the board origin, Y is flipped and lengths are
// multiplied by Scale (nm per archive unit).
type UnitConverter struct {
	Origin archive.Point
	Scale  int64
}

// NewUnitConverter returns a converter centred on the design area.
func NewUnitConverter(area archive.DesignArea, scale int64) UnitConverter {
	return UnitConverter{Origin: area.Center(), Scale: scale}
}

// ToInternal converts an archive point to board coordinates.
func (c UnitConverter) ToInternal(p archive.Point) pcb.Point {
	return pcb.Point{
		X: int((p.X - c.Origin.X) * c.Scale),
		Y: int(-(p.Y - c.Origin.Y) * c.Scale),
	}
}

// FromInternal is the inverse of ToInternal.
func (c UnitConverter) FromInternal(p pcb.Point) archive.Point {
	return archive.Point{
		X: int64(p.X)/c.Scale + c.Origin.X,
		Y: -int64(p.Y)/c.Scale + c.Origin.Y,
	}
}

// ToInternalLength scales a length such as a thickness or line width.
func (c UnitConverter) ToInternalLength(v int64) int {
	return int(v * c.Scale)
}

// CheckDesignSize fails with ErrDesignTooLarge when either side of the
// design area, scaled to nm, exceeds MaxDesignSize.
func CheckDesignSize(area archive.DesignArea, scale int64) error {
	if scale <= 0 {
		scale = 1
	}
	w, h := area.Size()
	limit := MaxDesignSize / scale
	if w <= limit && h <= limit {
		return nil
	}

	p := message.NewPrinter(language.English)
	return ioError(ErrDesignTooLarge, p.Sprintf(
		"The design is too large and cannot be imported.\n"+
			"Please reduce the maximum design size in CADSTAR by navigating to: "+
			"Design Tab -> Properties -> Design Options -> Maximum Design Size.\n"+
			"Current design size: %d, %d micrometres.\n"+
			"Maximum permitted design size: %d, %d micrometres.",
		toMicrons(w, scale), toMicrons(h, scale),
		MaxDesignSize/1000, MaxDesignSize/1000))
}

func toMicrons(v, scale int64) int64 {
	if v > math.MaxInt64/scale {
		return v / 1000 * scale
	}
	return v * scale / 1000
}
