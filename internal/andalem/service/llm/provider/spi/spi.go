package spi

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/pkg/options"
)

// ProviderPlugin backs one provider of the model catalog.
type ProviderPlugin interface {
	// Name is the catalog provider name, e.g. "ollama".
	Name() string
	// DefaultConfig is merged with the models.providers overrides of the configuration.
	DefaultConfig() *options.ProviderConfig
	BuildProvider(cfg *options.ProviderConfig) (*entity.ModelProvider, error)
}

// ChatModelPlugin is a ProviderPlugin that can build the chat models agents
// and managers run on.
type ChatModelPlugin interface {
	ProviderPlugin
	// BuildChatModel builds the model of instance. Nil params keep the
	// provider defaults.
	BuildChatModel(ctx context.Context, instance *entity.ModelInstance, provider *entity.ModelProvider, params *entity.LLMParams) (model.BaseChatModel, error)
}

// PluginFactory is a function that creates a ProviderPlugin instance.
type PluginFactory func() ProviderPlugin
