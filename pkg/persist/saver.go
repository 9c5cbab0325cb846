package persist

import (
	"context"
	"sync"

	"github.com/Sakshi-Pise24/task-manager/pkg/task"
)

// Saver runs saves off the UI loop. Each snapshot carries a generation
// number; a snapshot older than the last one written is dropped, so saves
// finishing out of order never roll the stored list back.
type Saver struct {
	p Persistor

	mu      sync.Mutex
	written uint64
}

func NewSaver(p Persistor) *Saver {
	return &Saver{p: p}
}

// Save writes snapshot if gen is newer than anything written so far.
// It reports whether the write happened.
func (s *Saver) Save(ctx context.Context, gen uint64, snapshot []task.Task) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.written {
		return false, nil
	}
	if err := s.p.Save(ctx, snapshot); err != nil {
		return false, err
	}
	s.written = gen
	return true, nil
}

// Written is the generation of the last successful write.
func (s *Saver) Written() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}
