package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/gg/gptr"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/repo"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/pkg/errno"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/spi"
	"github.com/kiosk404/andalem/internal/pkg/options"
	"github.com/kiosk404/andalem/pkg/logger"
)

// ModelMapper turns catalog model keys into runnable chat models.
type ModelMapper interface {
	// MapLLM builds the chat model selected by key at the given temperature.
	// For the manager role it returns nil, nil when the process is sequential
	// or no model is selected, before any catalog lookup.
	MapLLM(ctx context.Context, key catalog.ModelKey, temperature float64, role entity.RoleKind, process catalog.Process) (model.BaseChatModel, error)

	// Providers returns the configured providers.
	Providers(ctx context.Context) ([]*entity.ModelProvider, error)
}

var _ ModelMapper = (*modelMapperImpl)(nil)

type modelMapperImpl struct {
	registry     *provider.Registry
	providerRepo repo.ProviderRepository

	// pluginCache caches provider plugin instances to avoid repeated factory calls.
	// Key: providerID (string), Value: spi.ChatModelPlugin.
	pluginCache sync.Map
}

// NewModelMapper creates a ModelMapper over the plugins in registry.
func NewModelMapper(registry *provider.Registry, providerRepo repo.ProviderRepository) ModelMapper {
	return &modelMapperImpl{
		registry:     registry,
		providerRepo: providerRepo,
	}
}

// InitProviders builds one provider per registered plugin from its default
// config merged with overrides, and saves it to providerRepo.
func InitProviders(ctx context.Context, registry *provider.Registry, providerRepo repo.ProviderRepository, overrides map[string]*options.ProviderConfig) error {
	for _, name := range registry.List() {
		factory, err := registry.Get(name)
		if err != nil {
			return err
		}
		plugin := factory()
		cfg := plugin.DefaultConfig().Merge(overrides[name])
		p, err := plugin.BuildProvider(cfg)
		if err != nil {
			return fmt.Errorf("failed to build provider %s: %w", name, err)
		}
		if err := providerRepo.Save(ctx, p); err != nil {
			return err
		}
		logger.Debug("[LLM] provider %s registered (base_url=%q, enabled=%t)", p.ID, p.BaseURL, p.Enabled)
	}
	return nil
}

func (m *modelMapperImpl) MapLLM(ctx context.Context, key catalog.ModelKey, temperature float64, role entity.RoleKind, process catalog.Process) (model.BaseChatModel, error) {
	if role == entity.RoleManager && (process != catalog.ProcessHierarchical || key == "") {
		return nil, nil
	}

	entry, ok := catalog.LookupModel(string(key))
	if !ok {
		return nil, fmt.Errorf("%w: %q", errno.ErrUnknownModel, key)
	}
	p, err := m.providerRepo.FindByID(ctx, entry.Provider)
	if err != nil {
		return nil, err
	}
	if !p.Enabled {
		return nil, fmt.Errorf("%w: %s", errno.ErrProviderDisabled, p.ID)
	}
	plugin, err := m.chatPlugin(entry.Provider)
	if err != nil {
		return nil, err
	}

	instance := entity.NewModelInstance(entry, p)
	params := &entity.LLMParams{Temperature: gptr.Of(float32(temperature))}
	cm, err := plugin.BuildChatModel(ctx, instance, p, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s model %s: %w", role, instance, err)
	}
	logger.Debug("[LLM] built %s model %q -> %s (temperature=%.2f)", role, key, instance, temperature)
	return cm, nil
}

func (m *modelMapperImpl) Providers(ctx context.Context) ([]*entity.ModelProvider, error) {
	return m.providerRepo.FindAll(ctx)
}

func (m *modelMapperImpl) chatPlugin(providerID string) (spi.ChatModelPlugin, error) {
	if cached, ok := m.pluginCache.Load(providerID); ok {
		return cached.(spi.ChatModelPlugin), nil
	}
	factory, err := m.registry.Get(providerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrProviderNotFound, err)
	}
	plugin, ok := factory().(spi.ChatModelPlugin)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errno.ErrNotChatModel, providerID)
	}
	m.pluginCache.Store(providerID, plugin)
	return plugin, nil
}
