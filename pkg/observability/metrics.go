package observability

import (
	"errors"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "funnelkit"

// Metrics holds the editor collectors.
type Metrics struct {
	Edits        *prometheus.CounterVec
	Rejections   *prometheus.CounterVec
	HistoryDepth *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edits_total",
				Help:      "Total number of applied edits, undos and redos",
			},
			[]string{"op"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edit_rejections_total",
				Help:      "Total number of rejected edits by error kind",
			},
			[]string{"op", "reason"},
		),
		HistoryDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "history_entries",
				Help:      "Number of snapshots retained in a funnel's undo history",
			},
			[]string{"funnel"},
		),
	}
	for _, c := range []prometheus.Collector{m.Edits, m.Rejections, m.HistoryDepth} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	applied := func(e *domain.EditEvent) {
		m.Edits.WithLabelValues(e.Op).Inc()
		m.HistoryDepth.WithLabelValues(e.DocumentID).Set(float64(e.HistoryLen))
	}
	return domain.LifecycleHooks{
		OnEdit: applied,
		OnUndo: applied,
		OnRedo: applied,
		OnReject: func(e *domain.EditEvent) {
			m.Rejections.WithLabelValues(e.Op, Reason(e.Err)).Inc()
		},
	}
}

// Reason classifies an edit error for metric labels.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, domain.ErrInvalidDocument):
		return "invalid_document"
	default:
		return "other"
	}
}
