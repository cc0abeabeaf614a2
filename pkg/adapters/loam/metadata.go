package loam

// KindFunnel marks a document that carries funnel-level fields instead of a step.
const KindFunnel = "funnel"

// StepMetadata is the frontmatter of a markdown step (or of a funnel header
// when Kind is "funnel"). It uses "mapstructure" tags to match the
// frontmatter keys.
type StepMetadata struct {
	ID     string `json:"id" mapstructure:"id"`
	Funnel string `json:"funnel" mapstructure:"funnel"`
	Kind   string `json:"kind" mapstructure:"kind"`
	Title  string `json:"title" mapstructure:"title"`

	// Order positions the step; ties fall back to the document id.
	Order    int            `json:"order" mapstructure:"order"`
	Progress int            `json:"progress" mapstructure:"progress"`
	Settings LoaderSettings `json:"settings" mapstructure:"settings"`

	Components []LoaderComponent `json:"components" mapstructure:"components"`

	// Funnel header fields.
	Name   string         `json:"name" mapstructure:"name"`
	Config map[string]any `json:"config" mapstructure:"config"`
}

// LoaderSettings mirrors domain.StepSettings. Flags are pointers so that an
// omitted flag keeps its default.
type LoaderSettings struct {
	Background   string `json:"background" mapstructure:"background"`
	AutoAdvance  bool   `json:"auto_advance" mapstructure:"auto_advance"`
	TimeLimit    int    `json:"time_limit" mapstructure:"time_limit"`
	ShowHeader   *bool  `json:"show_header" mapstructure:"show_header"`
	ShowProgress *bool  `json:"show_progress" mapstructure:"show_progress"`
}

// LoaderComponent is a component declared in frontmatter.
type LoaderComponent struct {
	ID         string         `json:"id" mapstructure:"id"`
	Kind       string         `json:"kind" mapstructure:"kind"`
	Properties map[string]any `json:"properties" mapstructure:"properties"`
}
