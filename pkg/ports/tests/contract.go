package tests

import (
	"context"
	"testing"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/ports"
)

// DocumentLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.DocumentLoader.
// want maps each id the loader should know to the document it should return.
func DocumentLoaderContractTest(t *testing.T, loader ports.DocumentLoader, want map[string]domain.Document) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for id, expected := range want {
			got, err := loader.Load(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error loading %s: %v", id, err)
			}
			if got.ID != expected.ID || got.Name != expected.Name {
				t.Errorf("header mismatch for %s. got %q/%q, want %q/%q", id, got.ID, got.Name, expected.ID, expected.Name)
			}
			if len(got.Steps) != len(expected.Steps) {
				t.Fatalf("step count mismatch for %s. got %d, want %d", id, len(got.Steps), len(expected.Steps))
			}
			for i := range expected.Steps {
				if got.Steps[i].ID != expected.Steps[i].ID {
					t.Errorf("step %d of %s: got %q, want %q", i, id, got.Steps[i].ID, expected.Steps[i].ID)
				}
				if len(got.Steps[i].Components) != len(expected.Steps[i].Components) {
					t.Errorf("step %q of %s: got %d components, want %d", expected.Steps[i].ID, id,
						len(got.Steps[i].Components), len(expected.Steps[i].Components))
				}
			}
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-document")
		if err == nil {
			t.Error("expected error for non-existent document, got nil")
		}
	})

	t.Run("Load_Valid", func(t *testing.T) {
		for id := range want {
			got, err := loader.Load(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error loading %s: %v", id, err)
			}
			if err := domain.Validate(got); err != nil {
				t.Errorf("loader returned an invalid document for %s: %v", id, err)
			}
		}
	})
}
