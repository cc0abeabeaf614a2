// Package scoring turns participant answers to a style quiz into ranked
// style results. It is independent of the editor: a Quiz is either written
// by hand or extracted from a funnel document with FromDocument.
package scoring
