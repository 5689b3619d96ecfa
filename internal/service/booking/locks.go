package booking

import (
	"sync"

	"github.com/google/uuid"
)

// lockRegistry hands out one mutex per doctor so the load-schedule,
// conflict-check, insert sequence runs serially for a given doctor within
// this process. Cross-instance safety comes from the storage layer's
// conditional insert; this lock keeps a single instance from racing itself
// and producing avoidable storage rejections.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (r *lockRegistry) forDoctor(id uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[id] = lock
	}
	return lock
}
