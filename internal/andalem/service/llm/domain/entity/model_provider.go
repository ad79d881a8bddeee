package entity

// ModelProvider is a configured LLM backend.
type ModelProvider struct {
	// ID is the provider plugin name, e.g. "ollama".
	ID string `json:"id"`

	// BaseURL overrides the provider's default endpoint when set.
	BaseURL string `json:"base_url"`

	// APIKey is the resolved credential; "${ENV}" references are already expanded.
	APIKey string `json:"-"`

	// MaxTokens caps completion length, 0 uses the plugin default.
	MaxTokens int `json:"max_tokens"`

	Enabled bool `json:"enabled"`
}
