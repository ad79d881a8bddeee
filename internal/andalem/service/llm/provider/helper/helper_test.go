package helper

import (
	"testing"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvValue(t *testing.T) {
	t.Setenv("ANDALEM_TEST_KEY", "sk-test")

	t.Run("Should expand an environment reference", func(t *testing.T) {
		assert.Equal(t, "sk-test", ResolveEnvValue("${ANDALEM_TEST_KEY}"))
	})

	t.Run("Should keep literal values", func(t *testing.T) {
		assert.Equal(t, "sk-literal", ResolveEnvValue("sk-literal"))
		assert.Equal(t, "${", ResolveEnvValue("${"))
		assert.Equal(t, "${}", ResolveEnvValue("${}"))
	})

	t.Run("Should resolve unset variables to empty", func(t *testing.T) {
		assert.Empty(t, ResolveEnvValue("${ANDALEM_TEST_UNSET}"))
	})
}

func TestBuildProvider(t *testing.T) {
	t.Setenv("ANDALEM_TEST_KEY", "sk-test")
	p := &BasePlugin{PluginName: "openai"}

	got, err := p.BuildProvider(&options.ProviderConfig{
		BaseURL:   "https://api.example.com/v1/",
		APIKey:    "${ANDALEM_TEST_KEY}",
		MaxTokens: 2048,
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", got.ID)
	assert.Equal(t, "https://api.example.com/v1", got.BaseURL)
	assert.Equal(t, "sk-test", got.APIKey)
	assert.Equal(t, 2048, got.MaxTokens)
	assert.True(t, got.Enabled)
}

func TestOpenAIConfig(t *testing.T) {
	instance := &entity.ModelInstance{ModelID: "gpt-4o-mini", APIKey: "k"}

	t.Run("Should default the token budget", func(t *testing.T) {
		cfg := openAIConfig(instance, nil)
		assert.Equal(t, defaultMaxTokens, *cfg.MaxTokens)
		assert.Equal(t, einoOpenAI.ChatCompletionResponseFormatTypeText, cfg.ResponseFormat.Type)
		assert.Nil(t, cfg.Temperature)
	})

	t.Run("Should apply sampling parameters", func(t *testing.T) {
		cfg := openAIConfig(instance, &entity.LLMParams{
			Temperature:    gptr.Of(float32(0.2)),
			MaxTokens:      512,
			ResponseFormat: entity.ModelResponseFormatJSON,
		})
		assert.Equal(t, float32(0.2), *cfg.Temperature)
		assert.Equal(t, 512, *cfg.MaxTokens)
		assert.Equal(t, einoOpenAI.ChatCompletionResponseFormatTypeJSONObject, cfg.ResponseFormat.Type)
	})
}
