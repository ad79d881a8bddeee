package entity

import (
	"fmt"

	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
)

// ModelInstance is one catalog model bound to its provider's connection.
type ModelInstance struct {
	// Key is the catalog key the user selected.
	Key catalog.ModelKey `json:"key"`

	// ModelID is the identifier sent to the provider, e.g. "llama3".
	ModelID    string `json:"model_id"`
	ProviderID string `json:"provider_id"`

	BaseURL   string `json:"base_url"`
	APIKey    string `json:"-"`
	MaxTokens int    `json:"max_tokens"`
}

// NewModelInstance binds a catalog entry to a provider.
func NewModelInstance(entry catalog.ModelEntry, provider *ModelProvider) *ModelInstance {
	return &ModelInstance{
		Key:        entry.Key,
		ModelID:    entry.ModelID,
		ProviderID: provider.ID,
		BaseURL:    provider.BaseURL,
		APIKey:     provider.APIKey,
		MaxTokens:  provider.MaxTokens,
	}
}

func (m *ModelInstance) String() string {
	return fmt.Sprintf("%s/%s", m.ProviderID, m.ModelID)
}

// RoleKind tells which crew member a model is built for.
type RoleKind string

const (
	RoleAgent   RoleKind = "agent"
	RoleManager RoleKind = "manager"
)
