package registry

import (
	"fmt"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ChoiceOption is one selectable answer of a choice-group component.
type ChoiceOption struct {
	ID       string `mapstructure:"id" json:"id"`
	Label    string `mapstructure:"label" json:"label"`
	ImageRef string `mapstructure:"imageRef" json:"imageRef,omitempty"`
	Value    string `mapstructure:"value" json:"value,omitempty"`
	Style    string `mapstructure:"style" json:"style,omitempty"`
	// Points is nil when the option does not set a weight.
	Points *int `mapstructure:"points" json:"points,omitempty"`
}

// ChoiceGroup is the typed view of a choice-group component.
type ChoiceGroup struct {
	Options        []ChoiceOption `mapstructure:"options"`
	AllowMultiple  bool           `mapstructure:"allowMultiple"`
	SelectionLimit int            `mapstructure:"selectionLimit"`
	Layout         string         `mapstructure:"layout"`
}

// FAQItem is one entry of a faq component.
type FAQItem struct {
	Question string `mapstructure:"question"`
	Answer   string `mapstructure:"answer"`
}

// Decode copies props into out, a pointer to a struct with mapstructure tags.
// Numbers are converted weakly so JSON and YAML payloads decode alike.
func Decode(props domain.Properties, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(props)); err != nil {
		return fmt.Errorf("decode properties: %w", err)
	}
	return nil
}

// DecodeChoiceGroup returns the typed view of a choice-group component.
func DecodeChoiceGroup(c domain.Component) (ChoiceGroup, error) {
	if c.Kind != domain.KindChoiceGroup {
		return ChoiceGroup{}, fmt.Errorf("component %q is %q, not %q: %w", c.ID, c.Kind, domain.KindChoiceGroup, domain.ErrInvalidOperation)
	}
	var g ChoiceGroup
	if err := Decode(c.Properties, &g); err != nil {
		return ChoiceGroup{}, err
	}
	return g, nil
}
