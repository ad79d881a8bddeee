package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/repo"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
)

var _ repo.RunRepository = (*RunStore)(nil)

type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*entity.Run
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*entity.Run),
	}
}

func (s *RunStore) Create(_ context.Context, run *entity.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	s.runs[run.ID] = copyRun(run)
	return nil
}

func (s *RunStore) Get(_ context.Context, id string) (*entity.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errno.ErrRunNotFound, id)
	}
	return copyRun(run), nil
}

func (s *RunStore) Update(_ context.Context, run *entity.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		return fmt.Errorf("%w: %s", errno.ErrRunNotFound, run.ID)
	}
	s.runs[run.ID] = copyRun(run)
	return nil
}

func (s *RunStore) ListBySession(_ context.Context, sessionID string) ([]*entity.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]*entity.Run, 0)
	for _, run := range s.runs {
		if run.SessionID == sessionID {
			runs = append(runs, copyRun(run))
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })
	return runs, nil
}

func (s *RunStore) DeleteBySession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, run := range s.runs {
		if run.SessionID == sessionID {
			delete(s.runs, id)
		}
	}
	return nil
}

// copyRun detaches the stored run from the caller's copy. Output blocks are
// values, so a new slice is enough.
func copyRun(run *entity.Run) *entity.Run {
	out := *run
	out.Outputs = append([]entity.OutputBlock{}, run.Outputs...)
	if run.Error != nil {
		e := *run.Error
		e.Details = append([]string(nil), run.Error.Details...)
		out.Error = &e
	}
	return &out
}
