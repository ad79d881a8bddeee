package qwen

import (
	"context"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	einoQwen "github.com/cloudwego/eino-ext/components/model/qwen"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/helper"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/spi"
	"github.com/kiosk404/andalem/internal/pkg/options"
)

const (
	Name = catalog.ProviderQwen

	defaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
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
	conf := &einoQwen.ChatModelConfig{
		APIKey:      instance.APIKey,
		BaseURL:     defaultBaseURL,
		Model:       instance.ModelID,
		Temperature: gptr.Of(float32(0.7)),
		ResponseFormat: &einoOpenAI.ChatCompletionResponseFormat{
			Type: einoOpenAI.ChatCompletionResponseFormatTypeText,
		},
	}
	if instance.BaseURL != "" {
		conf.BaseURL = instance.BaseURL
	}
	if instance.MaxTokens > 0 {
		conf.MaxTokens = gptr.Of(instance.MaxTokens)
	}

	applyParamsToQwenConfig(conf, params)

	return einoQwen.NewChatModel(ctx, conf)
}

func applyParamsToQwenConfig(conf *einoQwen.ChatModelConfig, params *entity.LLMParams) {
	if params == nil {
		return
	}

	conf.TopP = params.TopP

	if params.Temperature != nil {
		conf.Temperature = gptr.Of(*params.Temperature)
	}
	if params.MaxTokens != 0 {
		conf.MaxTokens = gptr.Of(params.MaxTokens)
	}
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: defaultBaseURL,
		APIKey:  "${DASHSCOPE_API_KEY}",
	}
}
