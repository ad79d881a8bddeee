package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/repo"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg"
	"github.com/kiosk404/andalem/pkg/logger"
)

type crewService struct {
	sessions repo.SessionRepository
	files    repo.CrewFileRepository
	ids      *IDGenerator
	store    *ConfigStore

	// locks serializes operations per session.
	locks sync.Map
}

// NewCrewService creates a new CrewService.
func NewCrewService(sessions repo.SessionRepository, files repo.CrewFileRepository, ids *IDGenerator) CrewService {
	return &crewService{
		sessions: sessions,
		files:    files,
		ids:      ids,
		store:    NewConfigStore(ids),
	}
}

func (s *crewService) lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// mutate applies fn to a copy of the session and stores the result only when fn succeeds.
func (s *crewService) mutate(ctx context.Context, id string, fn func(sess *entity.Session) error) (*entity.Session, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.Touch()
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to update session %s: %w", id, err)
	}
	return sess, nil
}

func (s *crewService) CreateSession(ctx context.Context) (*entity.Session, error) {
	sess := entity.NewSession(s.ids.SessionID())
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	logger.InfoX(pkg.ModuleName, "[Crew] session %s created", sess.ID)
	return sess, nil
}

func (s *crewService) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	return s.sessions.Get(ctx, id)
}

func (s *crewService) ListSessions(ctx context.Context) ([]*entity.Session, error) {
	return s.sessions.List(ctx)
}

func (s *crewService) DeleteSession(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.locks.Delete(id)
	logger.InfoX(pkg.ModuleName, "[Crew] session %s deleted", id)
	return nil
}

func (s *crewService) AddAgent(ctx context.Context, sessionID string) (*entity.Agent, error) {
	var agent *entity.Agent
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) (err error) {
		agent, err = s.store.AddAgent(sess)
		return err
	})
	return agent, err
}

func (s *crewService) UpdateAgent(ctx context.Context, sessionID, agentID string, patch AgentPatch) (*entity.Agent, error) {
	var agent *entity.Agent
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) (err error) {
		agent, err = s.store.UpdateAgent(sess, agentID, patch)
		return err
	})
	return agent, err
}

func (s *crewService) RemoveAgent(ctx context.Context, sessionID, agentID string) error {
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) error {
		return s.store.RemoveAgent(sess, agentID)
	})
	return err
}

func (s *crewService) AddTask(ctx context.Context, sessionID, agentID string) (*entity.Task, error) {
	var task *entity.Task
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) (err error) {
		task, err = s.store.AddTask(sess, agentID)
		return err
	})
	return task, err
}

func (s *crewService) UpdateTask(ctx context.Context, sessionID, agentID string, number int, patch TaskPatch) (*entity.Task, error) {
	var task *entity.Task
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) (err error) {
		task, err = s.store.UpdateTask(sess, agentID, number, patch)
		return err
	})
	return task, err
}

func (s *crewService) RemoveTask(ctx context.Context, sessionID, agentID string, number int) error {
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) error {
		return s.store.RemoveTask(sess, agentID, number)
	})
	return err
}

func (s *crewService) UpdateCrew(ctx context.Context, sessionID string, patch CrewPatch) (*entity.Crew, error) {
	var crew *entity.Crew
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) (err error) {
		crew, err = s.store.UpdateCrew(sess, patch)
		return err
	})
	return crew, err
}

func (s *crewService) RemoveCrew(ctx context.Context, sessionID string) error {
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) error {
		s.store.RemoveCrew(sess)
		return nil
	})
	return err
}

func (s *crewService) Validate(ctx context.Context, sessionID string) (*Report, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return Validate(sess), nil
}

func (s *crewService) SaveCrew(ctx context.Context, sessionID, name string, overwrite bool) (string, error) {
	var saved string
	_, err := s.mutate(ctx, sessionID, func(sess *entity.Session) error {
		n, err := s.files.Save(ctx, sess, name, overwrite)
		if err != nil {
			logger.ErrorX(pkg.ModuleName, "[Crew] There was an error saving crew: %v", err)
			return err
		}
		sess.CurrentCrew = n
		saved = n
		return nil
	})
	return saved, err
}

func (s *crewService) LoadCrew(ctx context.Context, sessionID, name string) (*entity.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *entity.Session) error {
		loaded, err := s.files.Load(ctx, name)
		if err != nil {
			logger.ErrorX(pkg.ModuleName, "[Crew] There was an error loading crew: %v", err)
			return err
		}
		sess.Agents = loaded.Agents
		sess.Tasks = loaded.Tasks
		sess.Crew = loaded.Crew
		sess.TaskCounters = loaded.TaskCounters
		sess.CurrentCrew = loaded.CurrentCrew
		enforceDelegation(sess)
		return nil
	})
}

func (s *crewService) ListSavedCrews(ctx context.Context) ([]string, error) {
	names, err := s.files.List(ctx)
	if err != nil {
		logger.ErrorX(pkg.ModuleName, "[Crew] There was an error listing saved crews: %v", err)
	}
	return names, err
}

func (s *crewService) DeleteSavedCrew(ctx context.Context, name string) error {
	return s.files.Remove(ctx, name)
}
