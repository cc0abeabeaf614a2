// Package outline renders funnel documents as readable markdown for the
// terminal.
package outline

import (
	"fmt"
	"strings"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
)

// summaryKeys are tried in order to find a one-line summary of a component.
var summaryKeys = []string{"text", "label", "title", "quote", "alt", "src", "html"}

// Markdown returns an outline of doc: one section per step listing its
// components, with the options of choice groups nested below them.
func Markdown(doc domain.Document) string {
	var sb strings.Builder

	name := doc.Name
	if name == "" {
		name = doc.ID
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "`%s` with %d steps\n", doc.ID, len(doc.Steps))

	for i, step := range doc.Steps {
		title := step.Title
		if title == "" {
			title = step.ID
		}
		fmt.Fprintf(&sb, "\n## %d. %s\n\n", i+1, title)
		fmt.Fprintf(&sb, "`%s` %s", step.ID, step.Kind)
		if step.ProgressPercent > 0 {
			fmt.Fprintf(&sb, ", progress %d%%", step.ProgressPercent)
		}
		if step.Settings.AutoAdvance {
			sb.WriteString(", auto advance")
		}
		if step.Settings.TimeLimitSeconds > 0 {
			fmt.Fprintf(&sb, ", %ds limit", step.Settings.TimeLimitSeconds)
		}
		sb.WriteString("\n\n")

		if len(step.Components) == 0 {
			sb.WriteString("_empty_\n")
			continue
		}
		for _, c := range step.Components {
			writeComponent(&sb, c)
		}
	}
	return sb.String()
}

func writeComponent(sb *strings.Builder, c domain.Component) {
	fmt.Fprintf(sb, "- **%s** `%s`", c.Kind, c.ID)
	if s := summary(c); s != "" {
		fmt.Fprintf(sb, ": %s", s)
	}

	if c.Kind != domain.KindChoiceGroup {
		sb.WriteString("\n")
		return
	}
	group, err := registry.DecodeChoiceGroup(c)
	if err != nil {
		sb.WriteString(" (unreadable options)\n")
		return
	}
	if group.AllowMultiple {
		fmt.Fprintf(sb, " (up to %d)", group.SelectionLimit)
	}
	sb.WriteString("\n")
	for _, o := range group.Options {
		fmt.Fprintf(sb, "  - `%s` %s", o.ID, o.Label)
		var tags []string
		if o.Style != "" {
			tags = append(tags, o.Style)
		}
		if o.Points != nil {
			tags = append(tags, fmt.Sprintf("%d pt", *o.Points))
		}
		if len(tags) > 0 {
			fmt.Fprintf(sb, " _(%s)_", strings.Join(tags, ", "))
		}
		sb.WriteString("\n")
	}
}

func summary(c domain.Component) string {
	for _, key := range summaryKeys {
		if s := strings.TrimSpace(c.Properties.String(key)); s != "" {
			s = strings.Join(strings.Fields(s), " ")
			if len(s) > 60 {
				s = s[:57] + "..."
			}
			return s
		}
	}
	return ""
}
