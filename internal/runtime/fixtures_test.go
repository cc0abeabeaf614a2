package runtime_test

import (
	"github.com/aretw0/funnelkit/internal/runtime"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
)

// sampleDoc has steps A and B; A holds components x and y.
func sampleDoc() domain.Document {
	return domain.Document{
		ID:   "quiz",
		Name: "Style quiz",
		Steps: []domain.Step{
			{
				ID:    "A",
				Title: "Welcome",
				Kind:  domain.StepIntro,
				Components: []domain.Component{
					{ID: "x", Kind: domain.KindHeading, Properties: domain.Properties{"text": "Find your style"}},
					{ID: "y", Kind: domain.KindButton, Properties: domain.Properties{"label": "Start"}},
				},
				Settings: domain.DefaultStepSettings(),
			},
			{
				ID:              "B",
				Title:           "Question 1",
				Kind:            domain.StepQuestion,
				ProgressPercent: 10,
				Components:      []domain.Component{},
				Settings:        domain.DefaultStepSettings(),
			},
		},
		Config: map[string]any{"theme": map[string]any{"primary": "#B89B7A"}},
	}
}

func newOps() *runtime.Operations {
	return runtime.NewOperations(registry.Default(), runtime.SequentialIDs("n"))
}

func newEngine(opts ...runtime.Option) *runtime.Engine {
	opts = append([]runtime.Option{runtime.WithIDGenerator(runtime.SequentialIDs("n"))}, opts...)
	e, err := runtime.NewEngine(sampleDoc(), opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func componentIDs(doc domain.Document, stepID string) []string {
	step, _ := doc.FindStep(stepID)
	ids := make([]string, len(step.Components))
	for i, c := range step.Components {
		ids[i] = c.ID
	}
	return ids
}

func ptr[T any](v T) *T { return &v }
