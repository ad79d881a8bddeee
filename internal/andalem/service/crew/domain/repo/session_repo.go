package repo

import (
	"context"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
)

// SessionRepository defines the persistence interface for Session entities.
// Implementations return copies: mutating a returned session has no effect
// until it is passed back to Update.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *entity.Session) error
	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*entity.Session, error)
	// Update replaces an existing session.
	Update(ctx context.Context, session *entity.Session) error
	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error
	// List returns all sessions.
	List(ctx context.Context) ([]*entity.Session, error)
}
