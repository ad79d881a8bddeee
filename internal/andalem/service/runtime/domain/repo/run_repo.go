package repo

import (
	"context"

	"github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
)

// RunRepository keeps the runs of the current server lifetime.
type RunRepository interface {
	Create(ctx context.Context, run *entity.Run) error
	Get(ctx context.Context, id string) (*entity.Run, error)
	Update(ctx context.Context, run *entity.Run) error
	// ListBySession returns the runs of sessionID, oldest first.
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Run, error)
	// DeleteBySession drops every run of sessionID.
	DeleteBySession(ctx context.Context, sessionID string) error
}
