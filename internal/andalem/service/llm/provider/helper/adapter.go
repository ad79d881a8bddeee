package helper

import (
	"context"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
)

const defaultMaxTokens = 4096

// NewOpenAICompatibleChatModel builds an Eino chat model against any endpoint
// speaking the OpenAI chat completions protocol. OpenAI, NVIDIA, Kimi and GLM
// agents all go through here.
func NewOpenAICompatibleChatModel(ctx context.Context, instance *entity.ModelInstance, params *entity.LLMParams) (model.BaseChatModel, error) {
	return einoOpenAI.NewChatModel(ctx, openAIConfig(instance, params))
}

func openAIConfig(instance *entity.ModelInstance, params *entity.LLMParams) *einoOpenAI.ChatModelConfig {
	maxTokens := defaultMaxTokens
	if instance.MaxTokens > 0 {
		maxTokens = instance.MaxTokens
	}
	format := einoOpenAI.ChatCompletionResponseFormatTypeText

	cfg := &einoOpenAI.ChatModelConfig{
		Model:   instance.ModelID,
		APIKey:  instance.APIKey,
		BaseURL: instance.BaseURL,
	}
	if params != nil {
		cfg.Temperature = params.Temperature
		cfg.TopP = params.TopP
		if params.MaxTokens > 0 {
			maxTokens = params.MaxTokens
		}
		if params.ResponseFormat == entity.ModelResponseFormatJSON {
			format = einoOpenAI.ChatCompletionResponseFormatTypeJSONObject
		}
	}
	cfg.MaxTokens = gptr.Of(maxTokens)
	cfg.ResponseFormat = &einoOpenAI.ChatCompletionResponseFormat{Type: format}
	return cfg
}
