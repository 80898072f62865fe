package pcb

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/sexp/kicadsexp"
)

// FileFormatVersion is the board file version written (KiCad 6.0)
const FileFormatVersion = 20211014

// DefaultGenerator is written to (generator ...) unless the board says otherwise
const DefaultGenerator = "cpa2kicad"

// WriteFile writes the board to a .kicad_pcb file.
func WriteFile(filename string, b *Board) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, b); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write serialises the board as a KiCad 6 board file.
func Write(w io.Writer, b *Board) error {
	if err := kicadsexp.Format(w, boardToSexp(b)); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}
	return nil
}

func boardToSexp(b *Board) *kicadsexp.List {
	version := b.Version
	if version == 0 {
		version = FileFormatVersion
	}
	generator := b.Generator
	if generator == "" {
		generator = DefaultGenerator
	}

	root := kicadsexp.NewList("kicad_pcb",
		kicadsexp.NewList("version", kicadsexp.Symbol(strconv.Itoa(version))),
		kicadsexp.NewList("generator", kicadsexp.Atom(generator)),
	)

	general := kicadsexp.NewList("general", kicadsexp.NewList("thickness", sexp.FormatMM(b.General.Thickness)))
	root.Append(general)
	if b.General.Title != "" {
		root.Append(kicadsexp.NewList("title_block", kicadsexp.NewList("title", kicadsexp.Quoted(b.General.Title))))
	}

	root.Append(layersToSexp(b))
	root.Append(kicadsexp.NewList("setup", stackupToSexp(b)))

	for _, net := range b.Nets {
		root.Append(kicadsexp.NewList("net", kicadsexp.Symbol(strconv.Itoa(net.Number)), kicadsexp.Quoted(net.Name)))
	}

	for _, d := range b.Drawings {
		root.Append(drawingToSexp(d))
	}

	for _, t := range b.Tracks {
		root.Append(kicadsexp.NewList("segment",
			sexp.XY("start", t.Start.MM()),
			sexp.XY("end", t.End.MM()),
			kicadsexp.NewList("width", sexp.FormatMM(ToMM(t.Width))),
			kicadsexp.NewList("layer", kicadsexp.Quoted(t.Layer.String())),
			kicadsexp.NewList("net", kicadsexp.Symbol(strconv.Itoa(netNumber(t.Net)))),
		))
	}

	for _, z := range b.Zones {
		pts := kicadsexp.NewList("pts")
		for _, p := range z.Outline {
			pts.Append(sexp.XY("xy", p.MM()))
		}
		netName := ""
		if z.Net != nil {
			netName = z.Net.Name
		}
		root.Append(kicadsexp.NewList("zone",
			kicadsexp.NewList("net", kicadsexp.Symbol(strconv.Itoa(netNumber(z.Net)))),
			kicadsexp.NewList("net_name", kicadsexp.Quoted(netName)),
			kicadsexp.NewList("layer", kicadsexp.Quoted(z.Layer.String())),
			kicadsexp.NewList("polygon", pts),
		))
	}

	return root
}

func netNumber(n *Net) int {
	if n == nil {
		return 0
	}
	return n.Number
}

// layersToSexp renders the (layers ...) table: (number "canonical" type ["user name"])
func layersToSexp(b *Board) *kicadsexp.List {
	layers := kicadsexp.NewList("layers")
	for _, l := range b.Layers() {
		entry := kicadsexp.NewList(strconv.Itoa(l.Number), kicadsexp.Quoted(l.Name), kicadsexp.Symbol(l.Type))
		if l.UserName != "" {
			entry.Append(kicadsexp.Quoted(l.UserName))
		}
		layers.Append(entry)
	}
	return layers
}

func stackupToSexp(b *Board) *kicadsexp.List {
	stackup := kicadsexp.NewList("stackup")
	for _, item := range b.Design.Stackup.Items() {
		stackup.Append(stackupItemToSexp(item))
	}
	return stackup
}

func stackupItemToSexp(item *StackupItem) *kicadsexp.List {
	name := item.LayerID.String()
	if item.Type == StackupDielectric {
		name = fmt.Sprintf("dielectric %d", item.DielectricID)
	}

	layer := kicadsexp.NewList("layer", kicadsexp.Quoted(name),
		kicadsexp.NewList("type", kicadsexp.Quoted(item.TypeName)))

	for i, sl := range item.Sublayers() {
		if i > 0 {
			layer.Append(kicadsexp.Symbol("addsublayer"))
		}
		if sl.Thickness > 0 || item.Type == StackupDielectric || item.Type == StackupCopper {
			layer.Append(kicadsexp.NewList("thickness", sexp.FormatMM(ToMM(sl.Thickness))))
		}
		if sl.Material != "" {
			layer.Append(kicadsexp.NewList("material", kicadsexp.Quoted(sl.Material)))
		}
		if sl.EpsilonR != 0 {
			layer.Append(kicadsexp.NewList("epsilon_r", formatFloat(sl.EpsilonR)))
		}
		if sl.LossTangent != 0 {
			layer.Append(kicadsexp.NewList("loss_tangent", formatFloat(sl.LossTangent)))
		}
	}
	return layer
}

func drawingToSexp(d Drawing) *kicadsexp.List {
	layer := kicadsexp.NewList("layer", kicadsexp.Quoted(d.Layer.String()))
	width := kicadsexp.NewList("width", sexp.FormatMM(ToMM(d.Width)))

	if d.Shape == ShapeArc {
		return kicadsexp.NewList("gr_arc",
			sexp.XY("start", d.Start.MM()),
			sexp.XY("mid", d.ArcMid().MM()),
			sexp.XY("end", d.ArcEnd().MM()),
			layer, width)
	}
	return kicadsexp.NewList("gr_line",
		sexp.XY("start", d.Start.MM()),
		sexp.XY("end", d.End.MM()),
		layer, width)
}

func formatFloat(v float64) kicadsexp.Symbol {
	return kicadsexp.Symbol(strconv.FormatFloat(v, 'g', -1, 64))
}
