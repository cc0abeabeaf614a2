package dsl

import "github.com/aretw0/funnelkit/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    domain.Step
	builder *Builder
}

// Title sets the step title.
func (s *StepBuilder) Title(title string) *StepBuilder {
	s.step.Title = title
	return s
}

// Kind sets the step kind.
func (s *StepBuilder) Kind(kind domain.StepKind) *StepBuilder {
	s.step.Kind = kind
	return s
}

// Progress sets the progress percentage shown on the step.
func (s *StepBuilder) Progress(percent int) *StepBuilder {
	s.step.ProgressPercent = percent
	return s
}

// Background sets the step background.
func (s *StepBuilder) Background(bg string) *StepBuilder {
	s.step.Settings.Background = bg
	return s
}

// AutoAdvance moves to the next step after seconds (0 disables the limit).
func (s *StepBuilder) AutoAdvance(seconds int) *StepBuilder {
	s.step.Settings.AutoAdvance = true
	s.step.Settings.TimeLimitSeconds = seconds
	return s
}

// HideHeader turns the header off.
func (s *StepBuilder) HideHeader() *StepBuilder {
	s.step.Settings.ShowHeader = false
	return s
}

// HideProgress turns the progress bar off.
func (s *StepBuilder) HideProgress() *StepBuilder {
	s.step.Settings.ShowProgress = false
	return s
}

// Add appends a component of any kind. Omitted properties get registry defaults at build time.
func (s *StepBuilder) Add(kind domain.Kind, props domain.Properties) *StepBuilder {
	return s.AddWithID("", kind, props)
}

// AddWithID appends a component with an explicit id.
func (s *StepBuilder) AddWithID(id string, kind domain.Kind, props domain.Properties) *StepBuilder {
	s.step.Components = append(s.step.Components, domain.Component{
		ID:         id,
		Kind:       kind,
		Properties: props.Clone(),
	})
	return s
}

// Heading appends a heading.
func (s *StepBuilder) Heading(text string) *StepBuilder {
	return s.Add(domain.KindHeading, domain.Properties{"text": text})
}

// Paragraph appends a paragraph.
func (s *StepBuilder) Paragraph(text string) *StepBuilder {
	return s.Add(domain.KindParagraph, domain.Properties{"text": text})
}

// Image appends an image.
func (s *StepBuilder) Image(src, alt string) *StepBuilder {
	return s.Add(domain.KindImage, domain.Properties{"src": src, "alt": alt})
}

// Button appends a button that advances to the next step.
func (s *StepBuilder) Button(label string) *StepBuilder {
	return s.Add(domain.KindButton, domain.Properties{"label": label})
}

// Input appends a text input bound to name.
func (s *StepBuilder) Input(label, name, inputType string) *StepBuilder {
	return s.Add(domain.KindTextInput, domain.Properties{"label": label, "name": name, "inputType": inputType})
}

// Choices appends a single-answer choice group.
func (s *StepBuilder) Choices(options ...*OptionBuilder) *StepBuilder {
	return s.Add(domain.KindChoiceGroup, domain.Properties{"options": optionList(options)})
}

// MultiChoices appends a choice group accepting up to limit answers.
func (s *StepBuilder) MultiChoices(limit int, options ...*OptionBuilder) *StepBuilder {
	return s.Add(domain.KindChoiceGroup, domain.Properties{
		"options":        optionList(options),
		"allowMultiple":  true,
		"selectionLimit": limit,
	})
}

// Step is a shortcut for the parent builder's Step, allowing long chains.
func (s *StepBuilder) Step(id string) *StepBuilder {
	return s.builder.Step(id)
}

// OptionBuilder configures one answer of a choice group.
type OptionBuilder struct {
	fields map[string]any
}

// Option starts a choice option.
func Option(id, label string) *OptionBuilder {
	return &OptionBuilder{fields: map[string]any{"id": id, "label": label}}
}

// Style attributes the option to a scoring style.
func (o *OptionBuilder) Style(style string) *OptionBuilder {
	o.fields["style"] = style
	return o
}

// Points sets the weight the option adds to its style.
func (o *OptionBuilder) Points(points int) *OptionBuilder {
	o.fields["points"] = points
	return o
}

// Image sets the option picture.
func (o *OptionBuilder) Image(ref string) *OptionBuilder {
	o.fields["imageRef"] = ref
	return o
}

// Value sets the submitted value.
func (o *OptionBuilder) Value(v string) *OptionBuilder {
	o.fields["value"] = v
	return o
}

func optionList(options []*OptionBuilder) []any {
	out := make([]any, len(options))
	for i, o := range options {
		m := make(map[string]any, len(o.fields))
		for k, v := range o.fields {
			m[k] = v
		}
		out[i] = m
	}
	return out
}
