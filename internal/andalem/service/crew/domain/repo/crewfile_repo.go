package repo

import (
	"context"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
)

// CrewFileRepository stores crew configurations as named files.
type CrewFileRepository interface {
	// Save writes the agents, tasks and crew of session under name and returns
	// the normalized name actually used.
	Save(ctx context.Context, session *entity.Session, name string, overwrite bool) (string, error)
	// Load reads the named crew into a fresh session holding only the configuration.
	Load(ctx context.Context, name string) (*entity.Session, error)
	// List returns the names of all saved crews, sorted.
	List(ctx context.Context) ([]string, error)
	// Remove deletes a saved crew.
	Remove(ctx context.Context, name string) error
}
