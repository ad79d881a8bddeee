package service

import (
	"context"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
)

// CrewService is the application-level service for editing crews.
//
// It provides:
//   - Session management (one isolated configuration per session)
//   - Agent, task and crew editing
//   - Validation
//   - Saving and loading crew files
type CrewService interface {
	// --- Sessions ---

	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	ListSessions(ctx context.Context) ([]*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// --- Editing ---

	AddAgent(ctx context.Context, sessionID string) (*entity.Agent, error)
	UpdateAgent(ctx context.Context, sessionID, agentID string, patch AgentPatch) (*entity.Agent, error)
	RemoveAgent(ctx context.Context, sessionID, agentID string) error

	AddTask(ctx context.Context, sessionID, agentID string) (*entity.Task, error)
	UpdateTask(ctx context.Context, sessionID, agentID string, number int, patch TaskPatch) (*entity.Task, error)
	RemoveTask(ctx context.Context, sessionID, agentID string, number int) error

	UpdateCrew(ctx context.Context, sessionID string, patch CrewPatch) (*entity.Crew, error)
	RemoveCrew(ctx context.Context, sessionID string) error

	// --- Validation ---

	Validate(ctx context.Context, sessionID string) (*Report, error)

	// --- Crew files ---

	// SaveCrew writes the session's configuration and marks it as the current crew.
	SaveCrew(ctx context.Context, sessionID, name string, overwrite bool) (string, error)
	// LoadCrew replaces the session's configuration with a saved crew in one step.
	LoadCrew(ctx context.Context, sessionID, name string) (*entity.Session, error)
	ListSavedCrews(ctx context.Context) ([]string, error)
	DeleteSavedCrew(ctx context.Context, name string) error
}
