/*
Package funnelkit is the editing core of a visual quiz funnel builder.

A funnel is a Document: an ordered list of Steps, each holding an ordered
list of Components (headings, images, choice groups, price boxes...).
The Editor applies structural edits to the document, keeps an undo/redo
history of immutable snapshots and tracks which step and component are
selected.

# Concept

Every edit produces a new document snapshot that shares unchanged steps with
the previous one. A failed edit leaves the document, the history and the
selection exactly as they were. After a successful edit, undo or redo, the
selection is reconciled so it never points at something that no longer
exists. Presentation layers subscribe to the Editor and re-read its state.

# Key Features

  - Structural edits: insert, update, remove, move and duplicate components and steps.
  - Bounded undo/redo history (50 snapshots by default).
  - Component kind registry with defaults and typed properties (pkg/registry).
  - Pluggable persistence: memory, file, redis and loam adapters (pkg/adapters).
  - Lifecycle hooks for metrics and audit logs (pkg/observability).

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/funnelkit"
		"github.com/aretw0/funnelkit/pkg/domain"
	)

	func main() {
		ed, err := funnelkit.NewDefault()
		if err != nil {
			log.Fatal(err)
		}

		c, err := ed.AddComponent("intro", domain.KindParagraph, domain.Properties{"text": "Takes 2 minutes"})
		if err != nil {
			log.Fatal(err)
		}
		_ = ed.SelectComponent(c.ID)

		ed.Undo()
		fmt.Println(ed.Selection().ActiveComponentID == "") // true: the paragraph is gone
	}

Errors are reported with the sentinels in pkg/domain: ErrNotFound,
ErrInvalidOperation and ErrInvalidDocument. Match them with errors.Is.
*/
package funnelkit
