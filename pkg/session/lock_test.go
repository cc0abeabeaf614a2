package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/funnelkit/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("funnel-%d", i)
		_, _ = mgr.Open(ctx, id)
		_ = mgr.Delete(ctx, id)
	}

	lockCount := len(mgr.locks)
	t.Logf("Funnels created: %d, locks leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
	if len(mgr.editors) != 0 {
		t.Errorf("expected no open editors, got %d", len(mgr.editors))
	}
}
