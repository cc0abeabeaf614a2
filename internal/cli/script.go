package cli

import (
	"fmt"
	"os"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Script is a list of edit operations applied in order to one funnel.
//
//	funnel: style-quiz
//	ops:
//	  - op: insert_component
//	    step: intro
//	    kind: paragraph
//	    properties: {text: Takes two minutes}
//	    index: 0
//	  - op: rename_step
//	    step: q1
//	    title: Wardrobe
type Script struct {
	Funnel string
	Ops    []Op
}

// Op is one scripted edit. Which fields matter depends on Op.
type Op struct {
	Op         string         `mapstructure:"op"`
	Step       string         `mapstructure:"step"`
	Component  string         `mapstructure:"component"`
	Kind       string         `mapstructure:"kind"`
	Title      string         `mapstructure:"title"`
	Index      *int           `mapstructure:"index"`
	Properties map[string]any `mapstructure:"properties"`
	Flag       string         `mapstructure:"flag"`
	Key        string         `mapstructure:"key"`
	Value      any            `mapstructure:"value"`
}

// LoadScript reads a YAML op script from path.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML op script. Unknown op fields are rejected.
func ParseScript(data []byte) (Script, error) {
	var raw struct {
		Funnel string           `yaml:"funnel"`
		Ops    []map[string]any `yaml:"ops"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Script{}, fmt.Errorf("failed to parse script: %w", err)
	}

	s := Script{Funnel: raw.Funnel, Ops: make([]Op, 0, len(raw.Ops))}
	for i, m := range raw.Ops {
		var op Op
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &op,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return Script{}, err
		}
		if err := dec.Decode(m); err != nil {
			return Script{}, fmt.Errorf("op %d: %w", i+1, err)
		}
		if op.Op == "" {
			return Script{}, fmt.Errorf("op %d: missing op name", i+1)
		}
		s.Ops = append(s.Ops, op)
	}
	return s, nil
}

// Apply runs every op against ed and stops at the first failure. Ops that
// already succeeded stay applied and can be undone.
func (s Script) Apply(ed *funnelkit.Editor) error {
	for i, op := range s.Ops {
		if err := op.Apply(ed); err != nil {
			return fmt.Errorf("op %d (%s): %w", i+1, op.Op, err)
		}
	}
	return nil
}

// Apply runs the op against ed.
func (op Op) Apply(ed *funnelkit.Editor) error {
	switch op.Op {
	case "insert_component", "add_component":
		c := domain.Component{Kind: domain.Kind(op.Kind), Properties: op.Properties}
		_, err := ed.InsertComponent(op.Step, c, op.index())
		return err
	case "update_component":
		return ed.UpdateComponent(op.Component, op.Properties)
	case "remove_component":
		return ed.RemoveComponent(op.Component)
	case "move_component":
		if op.Index == nil {
			return missing("index")
		}
		return ed.MoveComponent(op.Component, op.Step, *op.Index)
	case "duplicate_component":
		_, err := ed.DuplicateComponent(op.Component)
		return err
	case "insert_step", "add_step":
		kind := domain.StepKind(op.Kind)
		if kind == "" {
			kind = domain.StepQuestion
		}
		_, err := ed.InsertStep(domain.Step{Kind: kind, Title: op.Title}, op.index())
		return err
	case "remove_step":
		return ed.RemoveStep(op.Step)
	case "move_step":
		if op.Index == nil {
			return missing("index")
		}
		return ed.MoveStep(op.Step, *op.Index)
	case "duplicate_step":
		_, err := ed.DuplicateStep(op.Step)
		return err
	case "rename_step":
		return ed.RenameStep(op.Step, op.Title)
	case "set_flag":
		on, ok := op.Value.(bool)
		if !ok {
			return fmt.Errorf("value must be true or false: %w", domain.ErrInvalidOperation)
		}
		return ed.SetStepFlag(op.Step, domain.StepFlag(op.Flag), on)
	case "set_setting":
		return ed.SetStepSetting(op.Step, op.Key, op.Value)
	case "set_progress":
		var percent int
		if err := mapstructure.WeakDecode(op.Value, &percent); err != nil {
			return fmt.Errorf("value must be a number: %w", domain.ErrInvalidOperation)
		}
		return ed.SetStepProgress(op.Step, percent)
	case "select_step":
		return ed.SelectStep(op.Step)
	case "select_component":
		return ed.SelectComponent(op.Component)
	case "undo":
		ed.Undo()
		return nil
	case "redo":
		ed.Redo()
		return nil
	}
	return fmt.Errorf("unknown op %q: %w", op.Op, domain.ErrInvalidOperation)
}

func (op Op) index() int {
	if op.Index == nil {
		return funnelkit.End
	}
	return *op.Index
}

func missing(field string) error {
	return fmt.Errorf("%s is required: %w", field, domain.ErrInvalidOperation)
}
