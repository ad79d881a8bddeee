package v1

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/crewfile"
	"github.com/kiosk404/andalem/internal/pkg/core"
	"github.com/kiosk404/andalem/pkg/errorx"
)

// FileHandler handles saving and loading crew files.
type FileHandler struct {
	svc service.CrewService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(svc service.CrewService) *FileHandler {
	return &FileHandler{svc: svc}
}

// Save handles POST /v1/sessions/:id/save.
func (h *FileHandler) Save(c *gin.Context) {
	id := c.Param("id")

	var req SaveCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid save request"), nil)
		return
	}
	name, err := h.svc.SaveCrew(c.Request.Context(), id, req.Name, req.Overwrite)
	if err != nil {
		core.WriteResponse(c, fileError(err), nil)
		return
	}
	core.WriteResponse(c, nil, gin.H{"name": name, "saved": true})
}

// Load handles POST /v1/sessions/:id/load. The session's configuration is
// replaced in one step; nothing changes when the file cannot be read.
func (h *FileHandler) Load(c *gin.Context) {
	id := c.Param("id")

	var req LoadCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid load request"), nil)
		return
	}
	sess, err := h.svc.LoadCrew(c.Request.Context(), id, req.Name)
	if err != nil {
		core.WriteResponse(c, fileError(err), nil)
		return
	}
	core.WriteResponse(c, nil, sess)
}

// List handles GET /v1/crews.
func (h *FileHandler) List(c *gin.Context) {
	names, err := h.svc.ListSavedCrews(c.Request.Context())
	if err != nil {
		core.WriteResponse(c, fileError(err), nil)
		return
	}
	if names == nil {
		names = []string{}
	}
	core.WriteResponse(c, nil, gin.H{"data": names})
}

// Delete handles DELETE /v1/crews/:name.
func (h *FileHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.svc.DeleteSavedCrew(c.Request.Context(), name); err != nil {
		core.WriteResponse(c, fileError(err), nil)
		return
	}
	core.WriteResponse(c, nil, gin.H{"name": name, "deleted": true})
}

// fileError keeps the short persistence message as the response detail.
func fileError(err error) error {
	if errors.Is(err, errno.ErrSessionNotFound) {
		return errorx.WrapC(err, ErrSessionNotFound, "session not found")
	}
	return errorx.WrapC(err, codeOf(err, ErrCrewFile), "%s", crewfile.UserMessage(err))
}
