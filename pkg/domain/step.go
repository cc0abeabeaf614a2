package domain

// StepKind describes the role of a step in the funnel.
type StepKind string

const (
	StepIntro             StepKind = "intro"
	StepQuestion          StepKind = "question"
	StepStrategicQuestion StepKind = "strategic-question"
	StepTransition        StepKind = "transition"
	StepLoading           StepKind = "loading"
	StepLeadCapture       StepKind = "lead-capture"
	StepResult            StepKind = "result"
	StepOffer             StepKind = "offer"
)

// StepFlag names a boolean display flag of a step.
type StepFlag string

const (
	FlagShowHeader   StepFlag = "show_header"
	FlagShowProgress StepFlag = "show_progress"
)

// Setting keys accepted by SetStepSetting.
const (
	SettingBackground  = "background"
	SettingAutoAdvance = "auto_advance"
	SettingTimeLimit   = "time_limit"
)

// StepSettings holds per-step presentation settings.
type StepSettings struct {
	Background       string `json:"background,omitempty" yaml:"background,omitempty"`
	AutoAdvance      bool   `json:"auto_advance,omitempty" yaml:"auto_advance,omitempty"`
	TimeLimitSeconds int    `json:"time_limit,omitempty" yaml:"time_limit,omitempty"`
	ShowHeader       bool   `json:"show_header" yaml:"show_header"`
	ShowProgress     bool   `json:"show_progress" yaml:"show_progress"`
}

// DefaultStepSettings returns the settings a freshly created step gets.
func DefaultStepSettings() StepSettings {
	return StepSettings{ShowHeader: true, ShowProgress: true}
}

// StepPatch changes several step fields in one edit. Nil and empty fields
// are left alone.
type StepPatch struct {
	Title    *string           `json:"title,omitempty"`
	Progress *int              `json:"progress_percent,omitempty"`
	Flags    map[StepFlag]bool `json:"flags,omitempty"`
	Settings map[string]any    `json:"settings,omitempty"`
}

// Step is an ordered page of the funnel.
type Step struct {
	ID              string       `json:"id" yaml:"id"`
	Title           string       `json:"title" yaml:"title"`
	Kind            StepKind     `json:"kind" yaml:"kind"`
	ProgressPercent int          `json:"progress_percent" yaml:"progress_percent"`
	Components      []Component  `json:"components" yaml:"components"`
	Settings        StepSettings `json:"settings" yaml:"settings"`
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	if s.Components != nil {
		comps := make([]Component, len(s.Components))
		for i, c := range s.Components {
			comps[i] = c.Clone()
		}
		s.Components = comps
	}
	return s
}

// ComponentIndex returns the position of the component in the step, or -1.
func (s Step) ComponentIndex(componentID string) int {
	for i, c := range s.Components {
		if c.ID == componentID {
			return i
		}
	}
	return -1
}
