package registry

import (
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/schema"
)

// Categories group kinds in the component palette.
const (
	CategoryContent    = "content"
	CategoryInput      = "input"
	CategoryLayout     = "layout"
	CategoryConversion = "conversion"
)

var (
	alignType  = schema.Enum("left", "center", "right")
	choiceType = schema.Object(schema.Schema{
		"id":       schema.String(),
		"label":    schema.String(),
		"imageRef": schema.String(),
		"value":    schema.String(),
		"style":    schema.String(),
		"points":   schema.Int(),
	})
	faqItemType = schema.Object(schema.Schema{
		"question": schema.String(),
		"answer":   schema.String(),
	})
)

// Builtins returns the specs of the built-in component kinds.
func Builtins() []KindSpec {
	return []KindSpec{
		{
			Kind: domain.KindHeading, Label: "Heading", Category: CategoryContent,
			Fields: []Field{
				{Name: "text", Label: "Text", Type: schema.String(), Default: "Heading"},
				{Name: "level", Label: "Level", Type: schema.IntRange(1, 6), Default: 1},
				{Name: "align", Label: "Alignment", Type: alignType, Default: "center"},
				{Name: "fontSize", Label: "Font size", Type: schema.IntRange(8, 96), Default: 28},
				{Name: "color", Label: "Color", Type: schema.String(), Default: ""},
			},
		},
		{
			Kind: domain.KindParagraph, Label: "Paragraph", Category: CategoryContent,
			Fields: []Field{
				{Name: "text", Label: "Text", Type: schema.String(), Default: ""},
				{Name: "align", Label: "Alignment", Type: alignType, Default: "left"},
				{Name: "fontSize", Label: "Font size", Type: schema.IntRange(8, 96), Default: 16},
				{Name: "color", Label: "Color", Type: schema.String(), Default: ""},
			},
		},
		{
			Kind: domain.KindImage, Label: "Image", Category: CategoryContent,
			Fields: []Field{
				{Name: "src", Label: "Source", Type: schema.String(), Default: ""},
				{Name: "alt", Label: "Alt text", Type: schema.String(), Default: ""},
				{Name: "width", Label: "Width", Type: schema.Int(), Default: 0},
				{Name: "rounded", Label: "Rounded corners", Type: schema.Bool(), Default: false},
			},
		},
		{
			Kind: domain.KindButton, Label: "Button", Category: CategoryInput,
			Fields: []Field{
				{Name: "label", Label: "Label", Type: schema.String(), Default: "Continue"},
				{Name: "variant", Label: "Variant", Type: schema.Enum("primary", "secondary", "link"), Default: "primary"},
				{Name: "action", Label: "Action", Type: schema.Enum("next", "url", "submit"), Default: "next"},
				{Name: "url", Label: "URL", Type: schema.String(), Default: ""},
				{Name: "disabled", Label: "Disabled", Type: schema.Bool(), Default: false},
			},
		},
		{
			Kind: domain.KindTextInput, Label: "Text input", Category: CategoryInput,
			Fields: []Field{
				{Name: "label", Label: "Label", Type: schema.String(), Default: "Your answer"},
				{Name: "placeholder", Label: "Placeholder", Type: schema.String(), Default: ""},
				{Name: "name", Label: "Field name", Type: schema.String(), Default: "answer"},
				{Name: "inputType", Label: "Input type", Type: schema.Enum("text", "email", "tel", "number"), Default: "text"},
				{Name: "required", Label: "Required", Type: schema.Bool(), Default: false},
			},
		},
		{
			Kind: domain.KindChoiceGroup, Label: "Choice group", Category: CategoryInput,
			Fields: []Field{
				{Name: "options", Label: "Options", Type: schema.Slice(choiceType), Default: []any{}},
				{Name: "allowMultiple", Label: "Allow multiple", Type: schema.Bool(), Default: false},
				{Name: "selectionLimit", Label: "Selection limit", Type: schema.IntRange(1, 20), Default: 1},
				{Name: "layout", Label: "Layout", Type: schema.Enum("list", "grid"), Default: "list"},
			},
		},
		{
			Kind: domain.KindSpacer, Label: "Spacer", Category: CategoryLayout,
			Fields: []Field{
				{Name: "height", Label: "Height", Type: schema.IntRange(0, 400), Default: 24},
			},
		},
		{
			Kind: domain.KindEmbed, Label: "Embed", Category: CategoryLayout,
			Fields: []Field{
				{Name: "html", Label: "Markup", Type: schema.String(), Default: ""},
				{Name: "mode", Label: "Mode", Type: schema.Enum("markup", "iframe"), Default: "markup"},
			},
		},
		{
			Kind: domain.KindPrice, Label: "Price", Category: CategoryConversion,
			Fields: []Field{
				{Name: "title", Label: "Title", Type: schema.String(), Default: "Special offer"},
				{Name: "price", Label: "Price", Type: schema.Float(), Default: 0.0},
				{Name: "originalPrice", Label: "Original price", Type: schema.Float(), Default: 0.0},
				{Name: "currency", Label: "Currency", Type: schema.String(), Default: "BRL"},
				{Name: "installments", Label: "Installments", Type: schema.IntRange(1, 24), Default: 1},
				{Name: "ctaLabel", Label: "Call to action", Type: schema.String(), Default: "Buy now"},
			},
		},
		{
			Kind: domain.KindCountdown, Label: "Countdown", Category: CategoryConversion,
			Fields: []Field{
				{Name: "durationSeconds", Label: "Duration (s)", Type: schema.IntRange(1, 86400), Default: 600},
				{Name: "label", Label: "Label", Type: schema.String(), Default: "Offer ends in"},
				{Name: "expiredText", Label: "Expired text", Type: schema.String(), Default: "Offer expired"},
			},
		},
		{
			Kind: domain.KindTestimonial, Label: "Testimonial", Category: CategoryConversion,
			Fields: []Field{
				{Name: "author", Label: "Author", Type: schema.String(), Default: ""},
				{Name: "quote", Label: "Quote", Type: schema.String(), Default: ""},
				{Name: "avatarRef", Label: "Avatar", Type: schema.String(), Default: ""},
				{Name: "rating", Label: "Rating", Type: schema.IntRange(0, 5), Default: 5},
			},
		},
		{
			Kind: domain.KindGuarantee, Label: "Guarantee", Category: CategoryConversion,
			Fields: []Field{
				{Name: "title", Label: "Title", Type: schema.String(), Default: "Risk-free guarantee"},
				{Name: "days", Label: "Days", Type: schema.IntRange(0, 365), Default: 7},
				{Name: "text", Label: "Text", Type: schema.String(), Default: ""},
			},
		},
		{
			Kind: domain.KindFAQ, Label: "FAQ", Category: CategoryContent,
			Fields: []Field{
				{Name: "items", Label: "Questions", Type: schema.Slice(faqItemType), Default: []any{}},
			},
		},
		{
			Kind: domain.KindSocialProof, Label: "Social proof", Category: CategoryConversion,
			Fields: []Field{
				{Name: "text", Label: "Text", Type: schema.String(), Default: ""},
				{Name: "count", Label: "Count", Type: schema.Int(), Default: 0},
				{Name: "avatars", Label: "Avatars", Type: schema.Slice(schema.String()), Default: []any{}},
			},
		},
	}
}
