package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/style"
	"gopkg.in/yaml.v3"
)

// Render writes r to w in format. FormatAuto renders as plain text;
// callers resolve it against their output first.
func Render(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatTerminal:
		_, err := io.WriteString(w, renderTerminal(r))
		return err
	default:
		_, err := io.WriteString(w, renderText(r))
		return err
	}
}

func itemLine(it Item, indicator string) string {
	if it.Detail == "" {
		return fmt.Sprintf("  %s %s\n", indicator, it.Label)
	}
	return fmt.Sprintf("  %s %s: %s\n", indicator, it.Label, it.Detail)
}

func renderText(r *Report) string {
	var b strings.Builder
	if r.Title != "" {
		fmt.Fprintf(&b, "=== %s ===\n", r.Title)
	}
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n%s\n", s.Title)
		for _, it := range s.Items {
			b.WriteString(itemLine(it, style.PlainIndicator(it.Status)))
		}
	}
	if r.Summary != nil {
		b.WriteString("\n")
		line := style.PlainIndicator(r.Summary.Status) + " " + r.Summary.Label
		if r.Summary.Detail != "" {
			line += "\n  " + r.Summary.Detail
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderTerminal(r *Report) string {
	var b strings.Builder
	if r.Title != "" {
		b.WriteString(style.TitleStyle.Render(r.Title))
		b.WriteString("\n")
	}
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n%s\n", style.Heading(s.Title))
		for _, it := range s.Items {
			if it.Status == style.StatusInfo && it.Label == "stderr" {
				b.WriteString(style.Indent(style.MutedStyle.Render(it.Detail), 2) + "\n")
				continue
			}
			b.WriteString(itemLine(it, style.Indicator(it.Status)))
		}
	}
	if r.Summary != nil {
		b.WriteString("\n")
		b.WriteString(style.Badge(r.Summary.Status, strings.ToUpper(string(r.Summary.Status))))
		b.WriteString(" " + r.Summary.Label + "\n")
		if r.Summary.Detail != "" {
			b.WriteString(style.Indent(style.MutedStyle.Render(r.Summary.Detail), 1) + "\n")
		}
	}
	return b.String()
}
