package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	runtimeService "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/service"
	"github.com/kiosk404/andalem/internal/pkg/core"
	"github.com/kiosk404/andalem/pkg/errorx"
	"github.com/kiosk404/andalem/pkg/logger"
)

// SessionHandler handles session management REST API endpoints.
type SessionHandler struct {
	svc  service.CrewService
	runs runtimeService.Orchestrator
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc service.CrewService, runs runtimeService.Orchestrator) *SessionHandler {
	return &SessionHandler{svc: svc, runs: runs}
}

// Create handles POST /v1/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	sess, err := h.svc.CreateSession(c.Request.Context())
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrSessionCreate, "create session"), nil)
		return
	}
	core.WriteResponse(c, nil, sess)
}

// List handles GET /v1/sessions.
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.svc.ListSessions(c.Request.Context())
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrSessionList, "list sessions"), nil)
		return
	}

	resp := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, newSessionSummary(s))
	}
	core.WriteResponse(c, nil, gin.H{"data": resp})
}

// Get handles GET /v1/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.svc.GetSession(c.Request.Context(), id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrSessionNotFound), "session %q not found", id), nil)
		return
	}
	core.WriteResponse(c, nil, sess)
}

// Delete handles DELETE /v1/sessions/:id. The runs of the session go with it.
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteSession(c.Request.Context(), id); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrSessionDelete), "delete session %q", id), nil)
		return
	}
	if err := h.runs.ForgetSession(c.Request.Context(), id); err != nil {
		logger.Warn("[Handler] forget runs of session %s: %v", id, err)
	}
	core.WriteResponse(c, nil, gin.H{"id": id, "deleted": true})
}
