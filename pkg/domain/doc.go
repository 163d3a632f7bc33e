/*
Package domain contains the core domain models of the verdict editor.

It defines the document model (an ordered sequence of text and group nodes), the
tri-state classification of items and the session State that wraps a document
together with its host-facing side channels (title, phase). This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Node: a document-level span, either free text or a classification group.
  - Item: one classifiable line within a group (neutral, success or failure).
  - Document: the ordered node sequence; the single source of truth for visual order.
  - State: the runtime snapshot of an editing session (Document, Title, Phase).
  - StateDiff: the changes between two states, streamed to remote renderers.
*/
package domain
