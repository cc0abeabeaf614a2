package observability

import (
	"log/slog"

	"github.com/aretw0/funnelkit/pkg/domain"
)

// AuditHooks logs every editor transition to logger.
// Applied edits are logged at Info, rejections at Warn.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(msg string) func(*domain.EditEvent) {
		return func(e *domain.EditEvent) {
			logger.Info(msg,
				"funnel", e.DocumentID,
				"op", e.Op,
				"target", e.TargetID,
				"history_len", e.HistoryLen,
				"cursor", e.Cursor,
			)
		}
	}
	return domain.LifecycleHooks{
		OnEdit: log("edit"),
		OnUndo: log("undo"),
		OnRedo: log("redo"),
		OnReject: func(e *domain.EditEvent) {
			logger.Warn("edit_rejected",
				"funnel", e.DocumentID,
				"op", e.Op,
				"target", e.TargetID,
				"reason", Reason(e.Err),
				"err", e.Err,
			)
		},
	}
}

// Combine returns hooks that call every non-nil hook of hs in order.
func Combine(hs ...domain.LifecycleHooks) domain.LifecycleHooks {
	fan := func(pick func(domain.LifecycleHooks) func(*domain.EditEvent)) func(*domain.EditEvent) {
		var fns []func(*domain.EditEvent)
		for _, h := range hs {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(e *domain.EditEvent) {
			for _, fn := range fns {
				fn(e)
			}
		}
	}
	return domain.LifecycleHooks{
		OnEdit:   fan(func(h domain.LifecycleHooks) func(*domain.EditEvent) { return h.OnEdit }),
		OnReject: fan(func(h domain.LifecycleHooks) func(*domain.EditEvent) { return h.OnReject }),
		OnUndo:   fan(func(h domain.LifecycleHooks) func(*domain.EditEvent) { return h.OnUndo }),
		OnRedo:   fan(func(h domain.LifecycleHooks) func(*domain.EditEvent) { return h.OnRedo }),
	}
}
