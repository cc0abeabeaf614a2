package dsl

import "github.com/aretw0/funnelkit/pkg/domain"

// DefaultFunnelID is the id given to the starter funnel.
const DefaultFunnelID = "style-quiz"

// DefaultFunnel returns the starter style quiz: an intro, three scored
// questions, a strategic question, a loading step, lead capture, the result
// and an offer.
func DefaultFunnel() domain.Document {
	return DefaultFunnelWithID(DefaultFunnelID)
}

// DefaultFunnelWithID is DefaultFunnel with a caller chosen document id.
func DefaultFunnelWithID(id string) domain.Document {
	b := New(id, "Discover your style")
	b.Config("theme", map[string]any{
		"primaryColor": "#B89B7A",
		"background":   "#FFFFFF",
		"font":         "Playfair Display",
	})

	b.Step("intro").
		Title("Welcome").
		Kind(domain.StepIntro).
		HideProgress().
		Image("", "Logo").
		Heading("Discover your personal style").
		Paragraph("Answer a few quick questions and get a personalised style guide.").
		Input("What is your name?", "name", "text").
		Button("Start")

	b.Step("q1").
		Title("Clothing").
		Progress(20).
		AutoAdvance(0).
		Heading("Which outfit feels most like you?").
		MultiChoices(3,
			Option("q1-classic", "Tailored and timeless").Style("classic").Points(1),
			Option("q1-natural", "Comfortable and relaxed").Style("natural").Points(1),
			Option("q1-romantic", "Soft and delicate").Style("romantic").Points(1),
			Option("q1-dramatic", "Bold and striking").Style("dramatic").Points(1),
		)

	b.Step("q2").
		Title("Personality").
		Progress(40).
		AutoAdvance(0).
		Heading("How would friends describe you?").
		MultiChoices(3,
			Option("q2-classic", "Reliable and elegant").Style("classic").Points(1),
			Option("q2-natural", "Easygoing and practical").Style("natural").Points(1),
			Option("q2-romantic", "Warm and sensitive").Style("romantic").Points(1),
			Option("q2-dramatic", "Confident and daring").Style("dramatic").Points(1),
		)

	b.Step("q3").
		Title("Details").
		Progress(60).
		AutoAdvance(0).
		Heading("Which accessories do you reach for?").
		MultiChoices(3,
			Option("q3-classic", "Pearls and a leather watch").Style("classic").Points(1),
			Option("q3-natural", "Canvas bag and sneakers").Style("natural").Points(1),
			Option("q3-romantic", "Floral scarf and delicate rings").Style("romantic").Points(1),
			Option("q3-dramatic", "Statement earrings").Style("dramatic").Points(1),
		)

	b.Step("strategic").
		Title("Your goals").
		Kind(domain.StepStrategicQuestion).
		Progress(75).
		Heading("What do you want from your wardrobe?").
		Choices(
			Option("goal-confidence", "Feel more confident").Value("confidence"),
			Option("goal-practical", "Get dressed faster").Value("practical"),
			Option("goal-budget", "Stop wasting money").Value("budget"),
		).
		Button("Continue")

	b.Step("loading").
		Title("Analysing").
		Kind(domain.StepLoading).
		Progress(85).
		HideHeader().
		AutoAdvance(4).
		Heading("Analysing your answers...")

	b.Step("lead").
		Title("Get your result").
		Kind(domain.StepLeadCapture).
		Progress(95).
		Heading("Where should we send your guide?").
		Input("Email", "email", "email").
		Button("See my result")

	b.Step("result").
		Title("Result").
		Kind(domain.StepResult).
		Progress(100).
		Heading("Your style is ready").
		Paragraph("Here is what your answers say about you.").
		Add(domain.KindTestimonial, domain.Properties{
			"author": "Ana",
			"quote":  "The guide changed how I shop.",
		}).
		Button("Continue")

	b.Step("offer").
		Title("Offer").
		Kind(domain.StepOffer).
		HideProgress().
		Heading("Your complete style guide").
		Add(domain.KindPrice, domain.Properties{
			"price":         39.9,
			"originalPrice": 97.0,
		}).
		Add(domain.KindCountdown, nil).
		Add(domain.KindGuarantee, nil).
		Add(domain.KindFAQ, domain.Properties{
			"items": []any{
				map[string]any{"question": "How do I get the guide?", "answer": "It is sent to your email right away."},
				map[string]any{"question": "Can I ask for a refund?", "answer": "Yes, within 7 days."},
			},
		})

	return b.MustBuild()
}
