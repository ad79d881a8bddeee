package repo

import (
	"context"

	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
)

// ProviderRepository defines the repository interface for model providers.
type ProviderRepository interface {
	// Save persists a model provider. If the ID already exist, it updates.
	Save(ctx context.Context, provider *entity.ModelProvider) error
	// FindByID retrieves a model provider by its ID.
	FindByID(ctx context.Context, id string) (*entity.ModelProvider, error)
	// FindAll retrieves all model providers, ordered by ID.
	FindAll(ctx context.Context) ([]*entity.ModelProvider, error)
}
