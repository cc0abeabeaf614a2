package ports

import (
	"context"

	"github.com/aretw0/funnelkit/pkg/domain"
)

// DocumentStore persists funnel documents, keyed by Document.ID.
// Saving then loading a document must return an equal document.
type DocumentStore interface {
	DocumentLoader

	// Save creates or replaces the document.
	Save(ctx context.Context, doc domain.Document) error

	// Delete removes the document. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all stored documents.
	List(ctx context.Context) ([]string, error)
}
