package tradein

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MemoryRepository keeps submissions in process. Used for development and
// tests; everything is lost on restart.
type MemoryRepository struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]Submission
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{subs: map[uuid.UUID]Submission{}}
}

func (r *MemoryRepository) Save(_ context.Context, s *Submission) error {
	if s == nil || s.ID == uuid.Nil {
		return errors.New("submission id is required")
	}
	r.mu.Lock()
	r.subs[s.ID] = *s
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*Submission, error) {
	r.mu.RLock()
	s, ok := r.subs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	return &s, nil
}
