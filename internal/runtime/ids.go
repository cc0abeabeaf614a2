package runtime

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces candidate ids for new steps and components.
// Candidates that collide with ids already in the document are discarded.
type IDGenerator func() string

// RandomIDs returns the default generator: random UUIDs.
func RandomIDs() IDGenerator {
	return uuid.NewString
}

// SequentialIDs returns a generator yielding prefix1, prefix2, ...
// It is safe for concurrent use.
func SequentialIDs(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s%d", prefix, n.Add(1))
	}
}

const maxIDAttempts = 64

// idPool tracks the ids taken in a document while an operation allocates new ones.
type idPool struct {
	taken map[string]bool
	next  IDGenerator
}

func newIDPool(taken []string, next IDGenerator) *idPool {
	p := &idPool{taken: make(map[string]bool, len(taken)), next: next}
	for _, id := range taken {
		p.taken[id] = true
	}
	return p
}

func (p *idPool) has(id string) bool { return p.taken[id] }

func (p *idPool) claim(id string) { p.taken[id] = true }

func (p *idPool) fresh() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := p.next()
		if id != "" && !p.taken[id] {
			p.taken[id] = true
			return id, nil
		}
	}
	return "", fmt.Errorf("no unused id after %d attempts", maxIDAttempts)
}
