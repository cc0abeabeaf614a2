package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/ports"
	"github.com/aretw0/funnelkit/pkg/registry"
)

type validationMiddleware struct {
	next  ports.DocumentStore
	kinds *registry.Registry
}

// NewValidationMiddleware rejects malformed documents on Save and Load with
// an error matching domain.ErrInvalidDocument. A nil registry means the
// built-in kinds.
func NewValidationMiddleware(kinds *registry.Registry) Middleware {
	if kinds == nil {
		kinds = registry.Default()
	}
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &validationMiddleware{next: next, kinds: kinds}
	}
}

func (m *validationMiddleware) check(doc domain.Document) error {
	if err := domain.Validate(doc); err != nil {
		return err
	}
	return m.kinds.ValidateDocument(doc)
}

func (m *validationMiddleware) Save(ctx context.Context, doc domain.Document) error {
	if err := m.check(doc); err != nil {
		return fmt.Errorf("refusing to save %q: %w", doc.ID, err)
	}
	return m.next.Save(ctx, doc)
}

func (m *validationMiddleware) Load(ctx context.Context, id string) (domain.Document, error) {
	doc, err := m.next.Load(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if err := m.check(doc); err != nil {
		return domain.Document{}, fmt.Errorf("stored document %q: %w", id, err)
	}
	return doc, nil
}

func (m *validationMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *validationMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
