package llm

import (
	"context"
	"fmt"

	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/store/inmemory"
	"github.com/kiosk404/andalem/internal/pkg/options"
	"github.com/kiosk404/andalem/pkg/logger"
)

// Config holds the configuration for the LLM module.
type Config struct {
	ModelOptions *options.ModelOptions

	// OutOfTreeRegistry adds provider plugins next to the built-in ones.
	OutOfTreeRegistry *provider.Registry
}

// CompletedConfig is the validated and completed configuration.
type CompletedConfig struct {
	*Config
}

// Complete validates and fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.ModelOptions == nil {
		c.ModelOptions = options.NewModelOptions()
	}
	return CompletedConfig{c}
}

// Module maps the model keys of a crew onto eino chat models. Registry holds
// one plugin per catalog provider.
type Module struct {
	Mapper   service.ModelMapper
	Registry *provider.Registry
}

// New creates and initializes the LLM module from a completed config.
func (c CompletedConfig) New(ctx context.Context) (*Module, error) {
	logger.Info("[LLM] creating LLM module...")

	registry := provider.NewInTreeRegistry()
	if c.OutOfTreeRegistry != nil {
		if err := registry.Merge(c.OutOfTreeRegistry); err != nil {
			return nil, fmt.Errorf("failed to merge out-of-tree providers: %w", err)
		}
	}
	logger.Info("[LLM] provider registry initialized with %d plugins", registry.Len())
	if missing := registry.Uncovered(catalog.Models()); len(missing) > 0 {
		logger.Warn("[LLM] no provider plugin for %v, their catalog models cannot run", missing)
	}

	providerStore := inmemory.NewProviderStore()
	if err := service.InitProviders(ctx, registry, providerStore, c.ModelOptions.ProviderOverrides()); err != nil {
		return nil, err
	}

	return &Module{
		Mapper:   service.NewModelMapper(registry, providerStore),
		Registry: registry,
	}, nil
}
