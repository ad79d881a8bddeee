package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/pkg/core"
	"github.com/kiosk404/andalem/pkg/errorx"
)

// AgentHandler handles agent editing endpoints.
type AgentHandler struct {
	svc service.CrewService
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(svc service.CrewService) *AgentHandler {
	return &AgentHandler{svc: svc}
}

// Add handles POST /v1/sessions/:id/agents. The agent comes with its first task.
func (h *AgentHandler) Add(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	agent, err := h.svc.AddAgent(ctx, id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrAgentAdd), "add agent to session %q", id), nil)
		return
	}
	sess, err := h.svc.GetSession(ctx, id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrSessionNotFound), "session %q not found", id), nil)
		return
	}
	core.WriteResponse(c, nil, AgentResponse{Agent: agent, Tasks: sess.AgentTasks(agent.ID)})
}

// Update handles PATCH /v1/sessions/:id/agents/:agent.
func (h *AgentHandler) Update(c *gin.Context) {
	id, agentID := c.Param("id"), c.Param("agent")

	var patch service.AgentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid agent patch"), nil)
		return
	}
	agent, err := h.svc.UpdateAgent(c.Request.Context(), id, agentID, patch)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrAgentSettings), "update agent %s: %v", agentID, err), nil)
		return
	}
	core.WriteResponse(c, nil, agent)
}

// Remove handles DELETE /v1/sessions/:id/agents/:agent.
func (h *AgentHandler) Remove(c *gin.Context) {
	id, agentID := c.Param("id"), c.Param("agent")
	if err := h.svc.RemoveAgent(c.Request.Context(), id, agentID); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrAgentNotFound), "remove agent %s", agentID), nil)
		return
	}
	core.WriteResponse(c, nil, gin.H{"agent_id": agentID, "deleted": true})
}
