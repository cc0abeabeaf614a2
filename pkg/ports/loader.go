package ports

import (
	"context"

	"github.com/aretw0/funnelkit/pkg/domain"
)

// DocumentLoader retrieves funnel documents.
type DocumentLoader interface {
	// Load returns the document with the given id.
	// It returns domain.ErrDocumentNotFound if the id is unknown and an error
	// matching domain.ErrInvalidDocument if the stored data is malformed.
	Load(ctx context.Context, id string) (domain.Document, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for live preview in the CLI.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying documents change.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
