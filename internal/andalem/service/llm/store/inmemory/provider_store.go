package inmemory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/repo"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/pkg/errno"
)

var _ repo.ProviderRepository = (*ProviderStore)(nil)

// ProviderStore keeps the resolved provider connections for the lifetime of
// the process. They are rebuilt from config on every start.
type ProviderStore struct {
	mu        sync.RWMutex
	providers map[string]*entity.ModelProvider
}

func NewProviderStore() *ProviderStore {
	return &ProviderStore{
		providers: make(map[string]*entity.ModelProvider),
	}
}

func (p *ProviderStore) Save(_ context.Context, provider *entity.ModelProvider) error {
	if provider.ID == "" {
		return fmt.Errorf("provider ID is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.providers[provider.ID] = provider
	return nil
}

func (p *ProviderStore) FindByID(_ context.Context, id string) (*entity.ModelProvider, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	provider, ok := p.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errno.ErrProviderNotFound, id)
	}
	return provider, nil
}

func (p *ProviderStore) FindAll(_ context.Context) ([]*entity.ModelProvider, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	providers := make([]*entity.ModelProvider, 0, len(p.providers))
	for _, provider := range p.providers {
		providers = append(providers, provider)
	}
	slices.SortFunc(providers, func(a, b *entity.ModelProvider) int { return strings.Compare(a.ID, b.ID) })
	return providers, nil
}
