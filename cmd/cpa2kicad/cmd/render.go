package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/archive"
	"github.com/OpenTraceLab/cpa2kicad/pkg/cadstar/importer"
	"github.com/OpenTraceLab/cpa2kicad/pkg/kicad/pcb"
)

var (
	accent  = lipgloss.Color("#2E86AB")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Foreground(dim).Width(16)
	okStyle      = lipgloss.NewStyle().Foreground(success)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	copperStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706"))
	dielectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#65A30D"))
)

func field(b *strings.Builder, label string, format string, args ...any) {
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(label))
	fmt.Fprintf(b, format, args...)
	b.WriteString("\n")
}

func renderImportReport(in, out string, a *archive.Archive, board *pcb.Board, report *importer.Report) string {
	var b strings.Builder

	b.WriteString(okStyle.Render("✓") + " " + titleStyle.Render("Imported "+in) + "\n")
	if a.Header.JobTitle != "" {
		field(&b, "Job", "%s", a.Header.JobTitle)
	}
	field(&b, "Resolution", "%s", a.Header.Resolution)
	field(&b, "Copper layers", "%d", report.CopperLayers)
	field(&b, "Stackup items", "%d", report.StackupItems)
	field(&b, "Thickness", "%.3f mm", board.General.Thickness)
	field(&b, "Drawings", "%d", report.Drawings)

	if bbox := board.EdgeBoundingBox(); !bbox.IsEmpty() {
		field(&b, "Board size", "%.2f x %.2f mm", bbox.Width(), bbox.Height())
	}

	for _, s := range report.SkippedShapes {
		b.WriteString("  " + warnStyle.Render(fmt.Sprintf("! board %s: %s shape not imported", s.Board, s.Type)) + "\n")
	}

	field(&b, "Written", "%s", out)
	return b.String()
}

// columns of the stackup table
var stackupWidths = []int{14, 20, 20, 11, 16, 8}

func tableRow(cells []string, style lipgloss.Style) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = style.Render(fmt.Sprintf("%-*s", stackupWidths[i], c))
	}
	return "  " + strings.Join(parts, " ") + "\n"
}

func renderStackup(rows []StackupRow, board *pcb.Board) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Stackup (%d copper layers, %.3f mm)",
		board.CopperLayerCount(), board.General.Thickness)) + "\n")
	b.WriteString(tableRow([]string{"Layer", "Name", "Type", "Thickness", "Material", "Er"}, headerStyle))

	for _, r := range rows {
		style := lipgloss.NewStyle()
		switch r.Type {
		case pcb.TypeNameCopper:
			style = copperStyle
		case pcb.TypeNameCore, pcb.TypeNamePrepreg:
			style = dielectStyle
		}

		er := ""
		if r.EpsilonR != 0 {
			er = fmt.Sprintf("%g", r.EpsilonR)
		}
		name := r.Name
		if r.Sublayers > 1 {
			name = fmt.Sprintf("%s (x%d)", name, r.Sublayers)
		}

		b.WriteString(tableRow([]string{
			r.Layer,
			name,
			r.Type,
			fmt.Sprintf("%.4f", r.ThicknessMM),
			strings.Join(r.Materials, ", "),
			er,
		}, style))
	}
	return b.String()
}

func renderSummary(path string, s *pcb.Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(path) + "\n")
	field(&b, "Version", "%d", s.Version)
	field(&b, "Generator", "%s", s.Generator)
	field(&b, "Thickness", "%.3f mm", s.General.Thickness)
	field(&b, "Copper layers", "%d", len(s.CopperLayers()))
	field(&b, "Nets", "%d", len(s.Nets))
	field(&b, "Lines", "%d", len(s.Lines))
	field(&b, "Arcs", "%d", len(s.Arcs))
	if bbox := s.EdgeBoundingBox(); !bbox.IsEmpty() {
		field(&b, "Board size", "%.2f x %.2f mm", bbox.Width(), bbox.Height())
	}

	b.WriteString("\n" + headerStyle.Render("Layers") + "\n")
	for _, l := range s.Layers {
		name := l.Name
		if l.UserName != "" {
			name += " " + lipgloss.NewStyle().Foreground(dim).Render("("+l.UserName+")")
		}
		fmt.Fprintf(&b, "  %3d  %-8s %s\n", l.Number, l.Type, name)
	}

	if len(s.Stackup) > 0 {
		b.WriteString("\n" + headerStyle.Render("Stackup") + "\n")
		for _, sl := range s.Stackup {
			fmt.Fprintf(&b, "  %-14s %-20s %.4f mm %s\n", sl.Name, sl.Type, sl.Thickness, strings.Join(sl.Materials, ", "))
		}
	}
	return b.String()
}
