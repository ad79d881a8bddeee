package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
)

// SessionStore is an in-memory implementation of repo.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewSessionStore creates a new instance of the SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entity.Session),
	}
}

func (s *SessionStore) Create(_ context.Context, session *entity.Session) error {
	cp, err := session.Clone()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cp
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, errno.ErrSessionNotFound
	}
	return session.Clone()
}

func (s *SessionStore) Update(_ context.Context, session *entity.Session) error {
	cp, err := session.Clone()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return errno.ErrSessionNotFound
	}
	s.sessions[session.ID] = cp
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return errno.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) List(_ context.Context) ([]*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*entity.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		cp, err := session.Clone()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, cp)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}
