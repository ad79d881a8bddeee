package gemini

import (
	"context"
	"fmt"

	einoGemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/helper"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/provider/spi"
	"github.com/kiosk404/andalem/internal/pkg/options"
	"google.golang.org/genai"
)

const (
	Name = catalog.ProviderGemini

	defaultBaseURL = "https://generativelanguage.googleapis.com/"
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
	clientCfg := &genai.ClientConfig{
		APIKey:  instance.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: defaultBaseURL,
		},
	}
	if instance.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = instance.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client for %s: %w", instance, err)
	}

	cfg := &einoGemini.Config{
		Client: client,
		Model:  instance.ModelID,
	}
	if instance.MaxTokens > 0 {
		mt := instance.MaxTokens
		cfg.MaxTokens = &mt
	}

	applyParamsToGeminiConfig(cfg, params)

	return einoGemini.NewChatModel(ctx, cfg)
}

func applyParamsToGeminiConfig(conf *einoGemini.Config, params *entity.LLMParams) {
	if params == nil {
		return
	}

	conf.TopP = params.TopP

	if params.Temperature != nil {
		t := *params.Temperature
		conf.Temperature = &t
	}
	if params.MaxTokens != 0 {
		mt := params.MaxTokens
		conf.MaxTokens = &mt
	}
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		APIKey: "${GOOGLE_API_KEY}",
	}
}
