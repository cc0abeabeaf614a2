package observability_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/internal/logging"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ed, err := funnelkit.NewDefault(funnelkit.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)

	require.NoError(t, ed.RenameStep("intro", "Hi"))
	require.NoError(t, ed.RenameStep("intro", "Hello"))
	assert.Error(t, ed.RemoveComponent("missing"))
	assert.Error(t, ed.SetStepFlag("intro", "blink", true))
	ed.Undo()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Edits.WithLabelValues(domain.OpRenameStep)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Edits.WithLabelValues(domain.OpUndo)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues(domain.OpRemoveComponent, "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues(domain.OpSetStepFlag, "invalid_operation")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HistoryDepth.WithLabelValues(ed.Document().ID)))

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestAuditHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug, "json")

	ed, err := funnelkit.NewDefault(funnelkit.WithLifecycleHooks(observability.AuditHooks(logger)))
	require.NoError(t, err)

	require.NoError(t, ed.SetStepProgress("q1", 30))
	assert.Error(t, ed.RemoveStep("missing"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var applied, rejected map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &applied))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rejected))

	assert.Equal(t, "edit", applied["msg"])
	assert.Equal(t, domain.OpSetStepProgress, applied["op"])
	assert.Equal(t, "q1", applied["target"])

	assert.Equal(t, "WARN", rejected["level"])
	assert.Equal(t, "not_found", rejected["reason"])
	assert.Contains(t, rejected, "err")
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnEdit: func(*domain.EditEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnEdit: func(*domain.EditEvent) { calls = append(calls, "b") },
		OnUndo: func(*domain.EditEvent) { calls = append(calls, "b-undo") },
	}

	h := observability.Combine(a, b)
	h.OnEdit(&domain.EditEvent{})
	h.OnUndo(&domain.EditEvent{})

	assert.Equal(t, []string{"a", "b", "b-undo"}, calls)
	assert.Nil(t, h.OnRedo)
	assert.Nil(t, h.OnReject)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "not_found", observability.Reason(domain.NotFound("op", "x")))
	assert.Equal(t, "invalid_operation", observability.Reason(domain.Invalid("op", "x", "no")))
	assert.Equal(t, "invalid_document", observability.Reason(&domain.ValidationError{Issues: []string{"x"}}))
	assert.Equal(t, "other", observability.Reason(assert.AnError))
}
