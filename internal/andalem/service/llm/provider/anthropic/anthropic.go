package anthropic

import (
	"context"

	einoClaude "github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/helper"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/spi"
	"github.com/kiosk404/andalem/internal/pkg/options"
)

const (
	Name = catalog.ProviderAnthropic

	defaultMaxTokens = 4096
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
	cfg := &einoClaude.Config{
		APIKey:    instance.APIKey,
		Model:     instance.ModelID,
		MaxTokens: defaultMaxTokens,
	}
	if instance.MaxTokens > 0 {
		cfg.MaxTokens = instance.MaxTokens
	}
	if instance.BaseURL != "" {
		baseURL := instance.BaseURL
		cfg.BaseURL = &baseURL
	}

	applyParamsToClaudeConfig(cfg, params)

	return einoClaude.NewChatModel(ctx, cfg)
}

func applyParamsToClaudeConfig(conf *einoClaude.Config, params *entity.LLMParams) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Temperature = params.Temperature
	}
	if params.MaxTokens != 0 {
		conf.MaxTokens = params.MaxTokens
	}
	if params.TopP != nil {
		conf.TopP = params.TopP
	}
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		APIKey: "${ANTHROPIC_API_KEY}",
	}
}
