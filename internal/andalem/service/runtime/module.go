package runtime

import (
	"context"
	"fmt"

	llmService "github.com/kiosk404/andalem/internal/andalem/service/llm/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/engine"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/engine/memory"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/store/inmemory"
	"github.com/kiosk404/andalem/internal/andalem/service/tools"
	"github.com/kiosk404/andalem/internal/pkg/options"
	"github.com/kiosk404/andalem/pkg/logger"
)

// Config holds the configuration for the Runtime module.
// Follows K8S-style: Config → Complete() → New(ctx, deps).
type Config struct {
	MemoryOptions *options.MemoryOptions

	// Engine replaces the eino crew engine, mainly for tests.
	Engine engine.Engine
}

// CompletedConfig is the validated and completed configuration.
type CompletedConfig struct {
	*Config
}

// Complete fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.MemoryOptions == nil {
		c.MemoryOptions = options.NewMemoryOptions()
	}
	return CompletedConfig{c}
}

// Deps are the modules the runtime maps catalog keys with.
type Deps struct {
	Models llmService.ModelMapper
	Tools  *tools.Mapper
}

// Module is the top-level Runtime module.
type Module struct {
	Orchestrator service.Orchestrator
	memory       *memory.Store // nil when memory is disabled
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m.memory != nil {
		return m.memory.Close()
	}
	return nil
}

// New creates the Runtime module from a completed config.
func (c CompletedConfig) New(_ context.Context, deps Deps) (*Module, error) {
	logger.Info("[Runtime] creating Runtime module...")
	if deps.Models == nil || deps.Tools == nil {
		return nil, fmt.Errorf("runtime module needs the model and tool mappers")
	}

	var store *memory.Store
	if c.MemoryOptions.Enabled {
		var err error
		if store, err = memory.Open(c.MemoryOptions.Path); err != nil {
			return nil, fmt.Errorf("failed to open memory store at %s: %w", c.MemoryOptions.Path, err)
		}
		logger.Info("[Runtime] memory store at %s", c.MemoryOptions.Path)
	}

	eng := c.Engine
	if eng == nil {
		eng = engine.New(engine.Config{Memory: store, RecallLimit: c.MemoryOptions.RecallLimit})
	}

	builder := service.NewPipelineBuilder(deps.Models, service.ToolsFactory(deps.Tools))
	logger.Info("[Runtime] Runtime module initialized (memory=%t)", store != nil)
	return &Module{
		Orchestrator: service.NewOrchestrator(inmemory.NewRunStore(), builder, eng),
		memory:       store,
	}, nil
}
