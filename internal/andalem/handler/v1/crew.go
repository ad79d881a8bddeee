package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/pkg/core"
	"github.com/kiosk404/andalem/pkg/errorx"
)

// CrewHandler handles crew editing and validation endpoints.
type CrewHandler struct {
	svc service.CrewService
}

// NewCrewHandler creates a new CrewHandler.
func NewCrewHandler(svc service.CrewService) *CrewHandler {
	return &CrewHandler{svc: svc}
}

// Update handles PATCH /v1/sessions/:id/crew.
func (h *CrewHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var patch service.CrewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid crew patch"), nil)
		return
	}
	crew, err := h.svc.UpdateCrew(c.Request.Context(), id, patch)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrCrewSettings), "update crew: %v", err), nil)
		return
	}
	core.WriteResponse(c, nil, crew)
}

// Remove handles DELETE /v1/sessions/:id/crew. It clears every agent and task.
func (h *CrewHandler) Remove(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.RemoveCrew(c.Request.Context(), id); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrSessionNotFound), "remove crew of session %q", id), nil)
		return
	}
	core.WriteResponse(c, nil, gin.H{"id": id, "deleted": true})
}

// Validate handles GET /v1/sessions/:id/validate. An incomplete crew is not
// an error here; the report says what is missing.
func (h *CrewHandler) Validate(c *gin.Context) {
	id := c.Param("id")
	report, err := h.svc.Validate(c.Request.Context(), id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrSessionNotFound), "validate session %q", id), nil)
		return
	}
	messages := report.Messages()
	if messages == nil {
		messages = []string{}
	}
	core.WriteResponse(c, nil, ValidateResponse{
		Valid:    report.Valid(),
		Report:   report,
		Messages: messages,
	})
}
