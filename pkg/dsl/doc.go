/*
Package dsl provides a Go DSL for programmatically constructing funnel documents.

It lets callers describe a funnel with a fluent builder instead of
hand-writing nested structs or YAML files. Components get registry defaults
and generated ids, and the result is validated before it is returned.

Example usage:

	b := dsl.New("style-quiz", "Style quiz")

	b.Step("intro").
		Kind(domain.StepIntro).
		Heading("Discover your style").
		Button("Start")

	b.Step("q1").
		Kind(domain.StepQuestion).
		Progress(20).
		Heading("Which outfit feels like you?").
		Choices(
			dsl.Option("a", "Classic blazer").Style("classic").Points(1),
			dsl.Option("b", "Denim jacket").Style("casual").Points(1),
		)

	doc, err := b.Build()

DefaultFunnel returns the starter quiz used when a new funnel is created.
*/
package dsl
