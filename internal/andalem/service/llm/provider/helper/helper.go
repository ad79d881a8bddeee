package helper

import (
	"os"
	"strings"

	"github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	"github.com/kiosk404/andalem/internal/pkg/options"
)

// BasePlugin carries the parts every provider plugin shares: its catalog
// provider name and the translation of a ProviderConfig into a ModelProvider.
type BasePlugin struct {
	PluginName string
}

func (b *BasePlugin) Name() string {
	return b.PluginName
}

// DefaultConfig is empty; plugins that ship a default endpoint override it.
func (b *BasePlugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{}
}

func (b *BasePlugin) BuildProvider(cfg *options.ProviderConfig) (*entity.ModelProvider, error) {
	return &entity.ModelProvider{
		ID:        b.PluginName,
		BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:    ResolveEnvValue(cfg.APIKey),
		MaxTokens: cfg.MaxTokens,
		Enabled:   !cfg.Disabled,
	}, nil
}

// ResolveEnvValue expands a key written as "${NAME}" from the environment so
// crew configs and config files never have to carry the secret itself.
// Anything else is returned untouched.
func ResolveEnvValue(s string) string {
	name, ok := strings.CutPrefix(s, "${")
	if !ok {
		return s
	}
	name, ok = strings.CutSuffix(name, "}")
	if !ok || name == "" {
		return s
	}
	return os.Getenv(name)
}
