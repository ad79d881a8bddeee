package options

import (
	"fmt"
	"net/url"

	"github.com/spf13/pflag"
)

// ModelOptions configures the LLM providers backing the model catalog.
type ModelOptions struct {
	// Providers overrides the built-in provider defaults, keyed by provider name.
	Providers map[string]*ProviderConfig `json:"providers" mapstructure:"providers"`

	// OllamaURL is a shortcut for providers.ollama.base-url.
	OllamaURL string `json:"ollama-url" mapstructure:"ollama-url"`
}

// ProviderConfig is the connection of one provider.
type ProviderConfig struct {
	BaseURL   string `json:"base-url" mapstructure:"base-url"`
	APIKey    string `json:"api-key" mapstructure:"api-key"`
	MaxTokens int    `json:"max-tokens" mapstructure:"max-tokens"`
	Disabled  bool   `json:"disabled" mapstructure:"disabled"`
}

// Merge returns c with the non-empty fields of override applied.
func (c *ProviderConfig) Merge(override *ProviderConfig) *ProviderConfig {
	out := *c
	if override == nil {
		return &out
	}
	if override.BaseURL != "" {
		out.BaseURL = override.BaseURL
	}
	if override.APIKey != "" {
		out.APIKey = override.APIKey
	}
	if override.MaxTokens != 0 {
		out.MaxTokens = override.MaxTokens
	}
	out.Disabled = override.Disabled
	return &out
}

func NewModelOptions() *ModelOptions {
	return &ModelOptions{
		Providers: make(map[string]*ProviderConfig),
	}
}

func (o *ModelOptions) Validate() []error {
	var errs []error
	for id, p := range o.Providers {
		if p == nil {
			continue
		}
		if p.BaseURL != "" {
			if _, err := url.ParseRequestURI(p.BaseURL); err != nil {
				errs = append(errs, fmt.Errorf("provider %q: invalid base-url %q", id, p.BaseURL))
			}
		}
		if p.MaxTokens < 0 {
			errs = append(errs, fmt.Errorf("provider %q: max-tokens must not be negative", id))
		}
	}
	return errs
}

func (o *ModelOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.OllamaURL, "models.ollama-url", o.OllamaURL, "Base URL of the local Ollama server.")
}

// ProviderOverrides returns the configured provider overrides including the shortcut flags.
func (o *ModelOptions) ProviderOverrides() map[string]*ProviderConfig {
	out := make(map[string]*ProviderConfig, len(o.Providers)+1)
	for id, p := range o.Providers {
		out[id] = p
	}
	if o.OllamaURL != "" {
		p := &ProviderConfig{}
		if existing, ok := out["ollama"]; ok && existing != nil {
			p = existing.Merge(nil)
		}
		p.BaseURL = o.OllamaURL
		out["ollama"] = p
	}
	return out
}
