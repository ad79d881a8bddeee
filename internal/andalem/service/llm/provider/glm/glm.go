package glm

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/helper"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/spi"
	"github.com/kiosk404/andalem/internal/pkg/options"
)

const Name = catalog.ProviderGLM

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
	return helper.NewOpenAICompatibleChatModel(ctx, instance, params)
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: "https://open.bigmodel.cn/api/paas/v4",
		APIKey:  "${ZHIPU_API_KEY}",
	}
}
