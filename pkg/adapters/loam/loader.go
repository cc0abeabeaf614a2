package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository of markdown steps to ports.DocumentLoader.
//
// Every document is one step. Its frontmatter names the funnel it belongs
// to, its position and its components; a non-empty markdown body becomes a
// trailing paragraph component. A document with kind "funnel" supplies the
// name and config of the funnel whose id it carries.
type Loader struct {
	Repo *loam.TypedRepository[StepMetadata]

	// DefaultFunnel owns steps that do not name a funnel.
	DefaultFunnel string
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[StepMetadata], defaultFunnel string) *Loader {
	return &Loader{
		Repo:          repo,
		DefaultFunnel: defaultFunnel,
	}
}

// Open initializes a read-only, strict Loam repository at path and wraps it.
// Steps without a funnel key belong to a funnel named after the directory.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// Strict mode makes every adapter return json.Number; ReadOnly keeps
	// Loam from creating its dev sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[StepMetadata](repo), filepath.Base(absPath)), nil
}

type stepDoc struct {
	id      string
	meta    StepMetadata
	content string
}

func (l *Loader) scan(ctx context.Context) (map[string][]stepDoc, map[string]StepMetadata, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loam list failed: %w", err)
	}

	steps := make(map[string][]stepDoc)
	headers := make(map[string]StepMetadata)
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if doc.Data.Kind == KindFunnel {
			headers[id] = doc.Data
			continue
		}
		funnel := doc.Data.Funnel
		if funnel == "" {
			funnel = l.DefaultFunnel
		}
		steps[funnel] = append(steps[funnel], stepDoc{id: id, meta: doc.Data, content: doc.Content})
	}
	return steps, headers, nil
}

// Load assembles the funnel with the given id.
func (l *Loader) Load(ctx context.Context, id string) (domain.Document, error) {
	steps, headers, err := l.scan(ctx)
	if err != nil {
		return domain.Document{}, err
	}
	found := steps[id]
	if len(found) == 0 {
		return domain.Document{}, fmt.Errorf("funnel %q: %w", id, domain.ErrDocumentNotFound)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].meta.Order != found[j].meta.Order {
			return found[i].meta.Order < found[j].meta.Order
		}
		return found[i].id < found[j].id
	})

	doc := domain.Document{ID: id, Name: id}
	if h, ok := headers[id]; ok {
		if h.Name != "" {
			doc.Name = h.Name
		}
		if h.Config != nil {
			doc.Config = normalize(h.Config).(map[string]any)
		}
	}
	for _, sd := range found {
		doc.Steps = append(doc.Steps, buildStep(sd))
	}

	if err := domain.Validate(doc); err != nil {
		return domain.Document{}, fmt.Errorf("funnel %q: %w", id, err)
	}
	return doc, nil
}

// List returns the ids of funnels that have at least one step.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	steps, _, err := l.scan(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(steps))
	for id := range steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func buildStep(sd stepDoc) domain.Step {
	meta := sd.meta
	settings := domain.DefaultStepSettings()
	settings.Background = meta.Settings.Background
	settings.AutoAdvance = meta.Settings.AutoAdvance
	settings.TimeLimitSeconds = meta.Settings.TimeLimit
	if meta.Settings.ShowHeader != nil {
		settings.ShowHeader = *meta.Settings.ShowHeader
	}
	if meta.Settings.ShowProgress != nil {
		settings.ShowProgress = *meta.Settings.ShowProgress
	}

	kind := domain.StepKind(meta.Kind)
	if kind == "" {
		kind = domain.StepQuestion
	}

	step := domain.Step{
		ID:              sd.id,
		Title:           meta.Title,
		Kind:            kind,
		ProgressPercent: meta.Progress,
		Components:      make([]domain.Component, 0, len(meta.Components)+1),
		Settings:        settings,
	}
	for _, c := range meta.Components {
		var props domain.Properties
		if c.Properties != nil {
			props = domain.Properties(normalize(c.Properties).(map[string]any))
		}
		step.Components = append(step.Components, domain.Component{
			ID:         c.ID,
			Kind:       domain.Kind(c.Kind),
			Properties: props,
		})
	}
	if body := strings.TrimSpace(sd.content); body != "" {
		step.Components = append(step.Components, domain.Component{
			ID:         sd.id + "-body",
			Kind:       domain.KindParagraph,
			Properties: domain.Properties{"text": body},
		})
	}
	return step
}

// normalize converts decoded frontmatter into the shapes JSON decoding
// produces: string-keyed maps, []any and float64 numbers.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = normalize(sub)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[fmt.Sprintf("%v", k)] = normalize(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = normalize(sub)
		}
		return out
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return f
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return v
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: one pending signal is enough to trigger a reload.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}
