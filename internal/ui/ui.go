// Package ui renders run reports and messages for the terminal
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"switchgraph/internal/domain"
	"switchgraph/internal/store"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// FormatError returns a styled multi-line error message
func FormatError(title, detail, suggestion string) string {
	out := errorStyle.Render("Error: "+title) + "\n"
	if detail != "" {
		out += "  " + detail + "\n"
	}
	if suggestion != "" {
		out += "  " + hintStyle.Render("Hint: "+suggestion) + "\n"
	}
	return out
}

// Bold renders text in bold
func Bold(s string) string {
	return boldStyle.Render(s)
}

func outcomeTag(o domain.Outcome) string {
	switch o {
	case domain.OutcomeOK:
		return successStyle.Render("  OK ")
	case domain.OutcomePartial:
		return warnStyle.Render(" PART")
	default:
		return errorStyle.Render(" FAIL")
	}
}

// RunReport prints the per-device outcome table and the run summary
func RunReport(w io.Writer, run *domain.Run, change store.Change) {
	width := 0
	for _, d := range run.Devices {
		width = max(width, len(d.Device))
	}

	for _, d := range run.Devices {
		line := fmt.Sprintf("%s %-*s", outcomeTag(d.Outcome), width, d.Device)
		if d.Outcome != domain.OutcomeFailed {
			line += " " + dimStyle.Render(fmt.Sprintf("%d interfaces, %d macs", d.Interfaces, d.Bindings))
			if d.Skipped > 0 {
				line += " " + warnStyle.Render(fmt.Sprintf("(%d lines skipped)", d.Skipped))
			}
		}
		if d.Error != "" {
			line += " " + dimStyle.Render(d.Error)
		}
		fmt.Fprintln(w, line)
	}

	summary := fmt.Sprintf("%d devices (%d ok, %d partial, %d failed) -> %d nodes, %d links",
		len(run.Devices),
		run.Count(domain.OutcomeOK),
		run.Count(domain.OutcomePartial),
		run.Count(domain.OutcomeFailed),
		run.Nodes, run.Edges)
	fmt.Fprintln(w, Bold(summary))

	if run.Output != "" {
		fmt.Fprintln(w, dimStyle.Render("Wrote "+run.Output))
	}
	if !change.Empty() {
		fmt.Fprintln(w, changeLine(change))
	}
}

func changeLine(c store.Change) string {
	var parts []string
	if n := len(c.AddedEdges); n > 0 {
		parts = append(parts, successStyle.Render(fmt.Sprintf("+%d links", n)))
	}
	if n := len(c.RemovedEdges); n > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("-%d links", n)))
	}
	if n := len(c.AddedNodes); n > 0 {
		parts = append(parts, successStyle.Render(fmt.Sprintf("+%d devices", n)))
	}
	if n := len(c.RemovedNodes); n > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("-%d devices", n)))
	}
	return "Changes since last run: " + strings.Join(parts, ", ")
}

// RunHistory prints one line per run, newest first
func RunHistory(w io.Writer, runs []domain.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No history recorded"))
		return
	}
	for _, r := range runs {
		status := successStyle.Render("ok  ")
		switch {
		case r.Devices > 0 && r.Failed == r.Devices:
			status = errorStyle.Render("fail")
		case r.Failed > 0:
			status = warnStyle.Render("part")
		}
		fmt.Fprintf(w, "%s  %s  %-6s %s  %d/%d devices  %d nodes  %d links\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			r.Source,
			dimStyle.Render(r.ID[:min(8, len(r.ID))]),
			r.Devices-r.Failed, r.Devices,
			r.Nodes, r.Edges)
	}
}

// ValidationOK prints a passed check
func ValidationOK(w io.Writer, name, detail string) {
	fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("  OK "), name, dimStyle.Render(detail))
}

// ValidationErr prints a failed check with an optional hint
func ValidationErr(w io.Writer, name, detail, suggestion string) {
	fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render(" ERR "), name, detail)
	if suggestion != "" {
		fmt.Fprintf(w, "      %s\n", hintStyle.Render("Hint: "+suggestion))
	}
}
