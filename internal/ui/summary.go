package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/wfgraph/internal/diagram"
	"github.com/aristath/wfgraph/internal/status"
)

// BarWidth is the width of the progress bar in cells.
const BarWidth = 40

// Summary renders a short report of a written diagram: where it went, how big
// the graph is and, when statuses were overlaid, how far the workflow got.
func Summary(result *diagram.RenderResult, overlay status.Overlay) string {
	var b strings.Builder

	title := StyleTitle.Render(fmt.Sprintf("%s (%s)", result.Path, result.Format))
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n")

	spec := result.Spec
	if spec != nil {
		fmt.Fprintf(&b, "Tasks: %d  Dependencies: %d\n", len(spec.Nodes), len(spec.Edges))
	}
	if result.SourcePath != "" {
		b.WriteString(StyleMuted.Render("Source: " + result.SourcePath))
		b.WriteString("\n")
	}

	if spec == nil || !spec.Annotated {
		return StyleBox.Render(strings.TrimRight(b.String(), "\n"))
	}

	names := make([]string, len(spec.Nodes))
	for i, n := range spec.Nodes {
		names[i] = n.ID
	}
	counts := overlay.Counts(names)

	b.WriteString("\n")
	for _, s := range status.All() {
		if counts[s] == 0 {
			continue
		}
		b.WriteString(StatusStyle(s).Render(fmt.Sprintf("%-10s %d", s.String()+":", counts[s])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "[%s]  %d/%d", progressBar(counts, len(names), BarWidth), counts[status.Completed], len(names))

	return StyleBox.Render(b.String())
}

// progressBar draws one segment per status, widths proportional to counts.
// Rounding leftovers are drawn as pending.
func progressBar(counts map[status.Status]int, total, width int) string {
	if total == 0 {
		return strings.Repeat(" ", width)
	}

	var bar strings.Builder
	used := 0
	for _, s := range status.All() {
		if s == status.ShouldRun || s == status.Unknown {
			continue
		}
		n := counts[s] * width / total
		if n == 0 {
			continue
		}
		bar.WriteString(StatusStyle(s).Render(strings.Repeat(barGlyph(s), n)))
		used += n
	}
	if rest := width - used; rest > 0 {
		bar.WriteString(StatusStyle(status.Unknown).Render(strings.Repeat(".", rest)))
	}
	return bar.String()
}
