/*
Package domain contains the core domain model of the funnel editor.

It defines the funnel document tree (Document, Step, Component), the
ephemeral editor state that sits next to it (Selection, HistoryEntry) and
the error kinds every edit operation reports. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Document: the aggregate root, an ordered list of steps plus opaque config.
  - Step: one page of the funnel, with an ordered list of components.
  - Component: a content block identified by an id unique in the document.
  - Selection: the active step and, optionally, the active component.
  - DocumentDiff: a JSON friendly summary of what changed between snapshots.
*/
package domain
