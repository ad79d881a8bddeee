package deepseek

import (
	"context"

	einoDeepseek "github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/helper"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/spi"
	"github.com/kiosk404/andalem/internal/pkg/options"
)

const Name = catalog.ProviderDeepSeek

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
	return einoDeepseek.NewChatModel(ctx, chatConfig(instance, params))
}

// chatConfig samples at 0.7 unless the agent sets its own temperature.
func chatConfig(instance *entity.ModelInstance, params *entity.LLMParams) *einoDeepseek.ChatModelConfig {
	conf := &einoDeepseek.ChatModelConfig{
		APIKey:             instance.APIKey,
		Model:              instance.ModelID,
		BaseURL:            instance.BaseURL,
		Temperature:        0.7,
		MaxTokens:          instance.MaxTokens,
		ResponseFormatType: einoDeepseek.ResponseFormatTypeText,
	}
	if params == nil {
		return conf
	}
	if params.Temperature != nil {
		conf.Temperature = *params.Temperature
	}
	if params.MaxTokens > 0 {
		conf.MaxTokens = params.MaxTokens
	}
	if params.ResponseFormat == entity.ModelResponseFormatJSON {
		conf.ResponseFormatType = einoDeepseek.ResponseFormatTypeJSONObject
	}
	return conf
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: "https://api.deepseek.com/v1",
		APIKey:  "${DEEPSEEK_API_KEY}",
	}
}
