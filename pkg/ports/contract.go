package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractDocument returns a document exercising every field a store must
// round-trip. Numbers are float64 so that JSON-backed stores compare equal.
func ContractDocument(id string) domain.Document {
	return domain.Document{
		ID:   id,
		Name: "Contract funnel",
		Steps: []domain.Step{
			{
				ID:    id + "-intro",
				Title: "Welcome",
				Kind:  domain.StepIntro,
				Components: []domain.Component{
					{ID: id + "-h", Kind: domain.KindHeading, Properties: domain.Properties{"text": "Hello", "fontSize": float64(32)}},
					{ID: id + "-c", Kind: domain.KindChoiceGroup, Properties: domain.Properties{
						"options": []any{
							map[string]any{"id": "a", "label": "Classic", "style": "classic", "points": float64(1)},
						},
						"allowMultiple": false,
					}},
				},
				Settings: domain.StepSettings{Background: "#fff", ShowHeader: true, ShowProgress: false},
			},
			{
				ID:              id + "-result",
				Title:           "Result",
				Kind:            domain.StepResult,
				ProgressPercent: 100,
				Components:      []domain.Component{},
				Settings:        domain.StepSettings{AutoAdvance: true, TimeLimitSeconds: 30, ShowHeader: true, ShowProgress: true},
			},
		},
		Config: map[string]any{"theme": map[string]any{"primary": "#B89B7A"}, "seo_title": "Quiz"},
	}
}

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	docID := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := ContractDocument(docID)

		err := store.Save(ctx, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc, loaded)
	})

	t.Run("Round Trip Is Idempotent", func(t *testing.T) {
		first, err := store.Load(ctx, docID)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, first))

		second, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Loaded Document Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err)
		loaded.Steps[0].Components[0].Properties["text"] = "mutated"
		loaded.Steps[0].Title = "mutated"

		again, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "Hello", again.Steps[0].Components[0].Properties["text"])
		assert.Equal(t, "Welcome", again.Steps[0].Title)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, ContractDocument(docID)))

		err := store.Delete(ctx, docID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")

		assert.NoError(t, store.Delete(ctx, docID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := docID + "-1"
		id2 := docID + "-2"
		require.NoError(t, store.Save(ctx, ContractDocument(id1)))
		require.NoError(t, store.Save(ctx, ContractDocument(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
