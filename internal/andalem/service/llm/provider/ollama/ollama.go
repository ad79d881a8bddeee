package ollama

import (
	"context"

	einoOllama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/helper"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/spi"
	"github.com/kiosk404/andalem/internal/pkg/options"
)

const (
	Name = catalog.ProviderOllama

	defaultBaseURL = "http://127.0.0.1:11434"
)

var _ spi.ChatModelPlugin = (*Plugin)(nil)

type Plugin struct {
	helper.BasePlugin
}

func New() spi.ProviderPlugin {
	return &Plugin{
		BasePlugin: helper.BasePlugin{PluginName: Name},
	}
}

func (p *Plugin) BuildChatModel(ctx context.Context, instance *entity.ModelInstance, _ *entity.ModelProvider, params *entity.LLMParams) (model.BaseChatModel, error) {
	conf := &einoOllama.ChatModelConfig{
		BaseURL: defaultBaseURL,
		Model:   instance.ModelID,
		Options: &einoOllama.Options{},
	}
	if instance.BaseURL != "" {
		conf.BaseURL = instance.BaseURL
	}

	applyParamsToOllamaConfig(conf, params)

	return einoOllama.NewChatModel(ctx, conf)
}

func applyParamsToOllamaConfig(conf *einoOllama.ChatModelConfig, params *entity.LLMParams) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Options.Temperature = *params.Temperature
	}
	if params.TopP != nil {
		conf.Options.TopP = *params.TopP
	}
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: defaultBaseURL,
		APIKey:  "${OLLAMA_API_KEY}",
	}
}
