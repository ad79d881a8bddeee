package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	llmService "github.com/kiosk404/andalem/internal/andalem/service/llm/domain/service"
	"github.com/kiosk404/andalem/internal/pkg/core"
	"github.com/kiosk404/andalem/pkg/errorx"
)

// CatalogResponse lists every choice the editor offers.
type CatalogResponse struct {
	Models         []catalog.ModelEntry `json:"models"`
	Tools          []catalog.ToolEntry  `json:"tools"`
	Processes      []string             `json:"processes"`
	BooleanChoices []string             `json:"boolean_choices"`
	Fields         CatalogFields        `json:"fields"`
}

// CatalogFields holds the field descriptions per record kind.
type CatalogFields struct {
	Agent []catalog.Field `json:"agent"`
	Task  []catalog.Field `json:"task"`
	Crew  []catalog.Field `json:"crew"`
}

// CatalogHandler serves the closed choice lists and provider settings.
type CatalogHandler struct {
	models llmService.ModelMapper
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(models llmService.ModelMapper) *CatalogHandler {
	return &CatalogHandler{models: models}
}

// Get handles GET /v1/catalog.
func (h *CatalogHandler) Get(c *gin.Context) {
	core.WriteResponse(c, nil, CatalogResponse{
		Models:         catalog.Models(),
		Tools:          catalog.Tools(),
		Processes:      catalog.Processes(),
		BooleanChoices: catalog.BooleanChoices(),
		Fields: CatalogFields{
			Agent: catalog.AgentFields(),
			Task:  catalog.TaskFields(),
			Crew:  catalog.CrewFields(),
		},
	})
}

// Providers handles GET /v1/providers. API keys are never returned.
func (h *CatalogHandler) Providers(c *gin.Context) {
	providers, err := h.models.Providers(c.Request.Context())
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrProviderList, "list providers"), nil)
		return
	}
	core.WriteResponse(c, nil, gin.H{"data": providers})
}
