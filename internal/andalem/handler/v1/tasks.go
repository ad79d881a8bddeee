package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/pkg/core"
	"github.com/kiosk404/andalem/pkg/errorx"
)

// TaskHandler handles task editing endpoints.
type TaskHandler struct {
	svc service.CrewService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc service.CrewService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Add handles POST /v1/sessions/:id/agents/:agent/tasks.
func (h *TaskHandler) Add(c *gin.Context) {
	id, agentID := c.Param("id"), c.Param("agent")
	task, err := h.svc.AddTask(c.Request.Context(), id, agentID)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrTaskAdd), "add task to agent %s", agentID), nil)
		return
	}
	core.WriteResponse(c, nil, task)
}

// Update handles PATCH /v1/sessions/:id/agents/:agent/tasks/:number.
func (h *TaskHandler) Update(c *gin.Context) {
	id, agentID := c.Param("id"), c.Param("agent")
	number, ok := taskNumber(c)
	if !ok {
		return
	}

	var patch service.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid task patch"), nil)
		return
	}
	task, err := h.svc.UpdateTask(c.Request.Context(), id, agentID, number, patch)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrTaskNotFound), "update task %d of agent %s", number, agentID), nil)
		return
	}
	core.WriteResponse(c, nil, task)
}

// Remove handles DELETE /v1/sessions/:id/agents/:agent/tasks/:number.
func (h *TaskHandler) Remove(c *gin.Context) {
	id, agentID := c.Param("id"), c.Param("agent")
	number, ok := taskNumber(c)
	if !ok {
		return
	}
	if err := h.svc.RemoveTask(c.Request.Context(), id, agentID, number); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrTaskNotFound), "remove task %d of agent %s", number, agentID), nil)
		return
	}
	core.WriteResponse(c, nil, gin.H{"agent_id": agentID, "task_number": number, "deleted": true})
}

func taskNumber(c *gin.Context) (int, bool) {
	raw := c.Param("number")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		core.WriteResponse(c, errorx.WithCode(ErrBind, "invalid task number %q", raw), nil)
		return 0, false
	}
	return n, true
}
