package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/funnelkit/pkg/domain"
)

// Mermaid produces a Mermaid flowchart of the step sequence of doc.
// It applies semantic shapes per step kind:
// - Intro: ((Circle))
// - Question: [/Parallelogram/]
// - Loading/Transition: [[Subroutine]]
// - Result/Offer: {{Hexagon}}
// - Default: [Rectangle]
// Steps that advance on their own are left through a dotted edge. When sel
// is given, the active step is highlighted.
func Mermaid(doc domain.Document, sel *domain.Selection) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, step := range doc.Steps {
		safeID := sanitizeMermaidID(step.ID)
		opener, closer := shape(step.Kind)

		title := step.Title
		if title == "" {
			title = step.ID
		}
		title = strings.ReplaceAll(title, "\"", "'")
		label := fmt.Sprintf("%s <br/> %d components", title, len(step.Components))
		if step.ProgressPercent > 0 {
			label += fmt.Sprintf(" · %d%%", step.ProgressPercent)
		}
		if step.Settings.TimeLimitSeconds > 0 {
			label += fmt.Sprintf(" <br/> ⏱️ %ds", step.Settings.TimeLimitSeconds)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		if i+1 < len(doc.Steps) {
			next := sanitizeMermaidID(doc.Steps[i+1].ID)
			arrow := "-->"
			if step.Settings.AutoAdvance {
				arrow = "-. auto .->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, next))
		}

		// External exits from url buttons
		for _, c := range step.Components {
			if c.Kind != domain.KindButton || c.Properties.String("action") != "url" {
				continue
			}
			url := c.Properties.String("url")
			if url == "" {
				continue
			}
			target := sanitizeMermaidID(c.ID) + "_url"
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s>\"%s\"]\n", safeID,
				strings.ReplaceAll(c.Properties.String("label"), "\"", "'"), target, url))
		}
	}

	if sel != nil && sel.ActiveStepID != "" {
		sb.WriteString("\n    %% Selection\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(sel.ActiveStepID)))
	}

	return sb.String()
}

func shape(kind domain.StepKind) (string, string) {
	switch kind {
	case domain.StepIntro:
		return "((", "))"
	case domain.StepQuestion, domain.StepStrategicQuestion, domain.StepLeadCapture:
		return "[/", "/]"
	case domain.StepLoading, domain.StepTransition:
		return "[[", "]]"
	case domain.StepResult, domain.StepOffer:
		return "{{", "}}"
	}
	return "[", "]"
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
