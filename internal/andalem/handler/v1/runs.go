package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	runtimeEntity "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
	runtimeService "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/service"
	"github.com/kiosk404/andalem/internal/pkg/core"
	"github.com/kiosk404/andalem/pkg/ansihtml"
	"github.com/kiosk404/andalem/pkg/errorx"
	"github.com/kiosk404/andalem/pkg/logger"
	"github.com/russross/blackfriday"
)

// SSE event names of a streamed run.
const (
	eventLine     = "line"
	eventQuestion = "question"
	eventRun      = "run"
	eventError    = "error"
)

// RunHandler runs crews and serves their results.
type RunHandler struct {
	svc    service.CrewService
	runs   runtimeService.Orchestrator
	inputs *InputBroker
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(svc service.CrewService, runs runtimeService.Orchestrator, inputs *InputBroker) *RunHandler {
	return &RunHandler{svc: svc, runs: runs, inputs: inputs}
}

// Run handles POST /v1/sessions/:id/runs. With "Accept: text/event-stream" the
// verbose trace and pending questions are streamed as they happen and the
// final event carries the run; otherwise the call blocks and returns the run.
func (h *RunHandler) Run(c *gin.Context) {
	id := c.Param("id")

	var req RunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid run request"), nil)
			return
		}
	}
	sess, err := h.svc.GetSession(c.Request.Context(), id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrSessionNotFound), "session %q not found", id), nil)
		return
	}

	// A started run finishes even if the client goes away.
	runCtx := context.WithoutCancel(c.Request.Context())

	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		h.stream(c, sess.ID, req, func(opts runtimeService.RunOptions) (*runtimeEntity.Run, error) {
			return h.runs.Run(runCtx, sess, opts)
		})
		return
	}

	var opts runtimeService.RunOptions
	if req.Interactive {
		opts.Input = h.inputs.Provider(id, nil)
	}
	run, err := h.runs.Run(runCtx, sess, opts)
	if err != nil {
		writeRunError(c, err)
		return
	}
	core.WriteResponse(c, nil, RunResponse{Run: run})
}

func (h *RunHandler) stream(c *gin.Context, sessionID string, req RunRequest,
	start func(runtimeService.RunOptions) (*runtimeEntity.Run, error)) {
	events := make(chan sse.Event, 64)
	gone := c.Request.Context().Done()
	send := func(e sse.Event) {
		select {
		case events <- e:
		case <-gone:
		}
	}

	opts := runtimeService.RunOptions{
		Sink: runtimeService.LineSinkFunc(func(l runtimeService.Line) {
			send(sse.Event{Event: eventLine, Data: l})
		}),
	}
	if req.Interactive {
		opts.Input = h.inputs.Provider(sessionID, func(q Question) {
			send(sse.Event{Event: eventQuestion, Data: q})
		})
	}

	go func() {
		defer close(events)
		run, err := start(opts)
		if err != nil {
			_, body := runError(err)
			send(sse.Event{Event: eventError, Data: body})
			return
		}
		send(sse.Event{Event: eventRun, Data: RunResponse{Run: run}})
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		e, ok := <-events
		if !ok {
			return false
		}
		c.Render(-1, e)
		return true
	})
}

// List handles GET /v1/sessions/:id/runs.
func (h *RunHandler) List(c *gin.Context) {
	id := c.Param("id")
	runs, err := h.runs.ListRuns(c.Request.Context(), id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrRunNotFound), "list runs of session %q", id), nil)
		return
	}
	if runs == nil {
		runs = []*runtimeEntity.Run{}
	}
	core.WriteResponse(c, nil, gin.H{"data": runs})
}

// Get handles GET /v1/sessions/:id/runs/:run.
func (h *RunHandler) Get(c *gin.Context) {
	run, ok := h.sessionRun(c)
	if !ok {
		return
	}
	core.WriteResponse(c, nil, RunResponse{Run: run})
}

// Report handles GET /v1/sessions/:id/runs/:run/report, rendering the run
// outputs as an HTML page.
func (h *RunHandler) Report(c *gin.Context) {
	run, ok := h.sessionRun(c)
	if !ok {
		return
	}
	page := blackfriday.MarkdownCommon([]byte(reportMarkdown(run)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// Questions handles GET /v1/sessions/:id/questions.
func (h *RunHandler) Questions(c *gin.Context) {
	core.WriteResponse(c, nil, gin.H{"data": h.inputs.Pending(c.Param("id"))})
}

// Answer handles POST /v1/sessions/:id/questions/:question.
func (h *RunHandler) Answer(c *gin.Context) {
	id, qid := c.Param("id"), c.Param("question")

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid answer"), nil)
		return
	}
	if err := h.inputs.Answer(id, qid, req.Answer); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, codeOf(err, ErrQuestionNotFound), "question %q not found", qid), nil)
		return
	}
	core.WriteResponse(c, nil, gin.H{"id": qid, "answered": true})
}

func (h *RunHandler) sessionRun(c *gin.Context) (*runtimeEntity.Run, bool) {
	id, runID := c.Param("id"), c.Param("run")
	run, err := h.runs.GetRun(c.Request.Context(), runID)
	if err == nil && run.SessionID != id {
		err = fmt.Errorf("run %s belongs to another session", runID)
	}
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrRunNotFound, "run %q not found", runID), nil)
		return nil, false
	}
	return run, true
}

// runError renders a rejected run. Incomplete crews carry the validation
// dialog lines.
func runError(err error) (int, gin.H) {
	coder := errorx.ParseCoder(errorx.WrapC(err, codeOf(err, ErrRunStart), "run crew"))
	body := gin.H{"code": coder.Code(), "message": coder.String()}

	var invalid *runtimeService.InvalidCrewError
	if errors.As(err, &invalid) {
		body["messages"] = invalid.Report.Messages()
	}
	return coder.HTTPStatus(), body
}

func writeRunError(c *gin.Context, err error) {
	logger.Warn("[Handler] run of session %s rejected: %v", c.Param("id"), err)
	status, body := runError(err)
	c.JSON(status, body)
}

func reportMarkdown(run *runtimeEntity.Run) string {
	var b strings.Builder
	title := run.CrewName
	if title == "" {
		title = "Crew run"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Status: **%s**\n\n", run.Status)

	if run.Error != nil {
		fmt.Fprintf(&b, "%s\n\n", run.Error.Message)
		for _, d := range run.Error.Details {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		return b.String()
	}
	for _, o := range run.Outputs {
		text := ansihtml.Strip(o.Raw)
		switch o.Kind {
		case runtimeEntity.OutputTaskDescription:
			fmt.Fprintf(&b, "## Agent %s, task %d\n\n> %s\n\n", strings.ToUpper(o.AgentID), o.TaskNumber,
				strings.ReplaceAll(text, "\n", "\n> "))
		case runtimeEntity.OutputTaskResult:
			fmt.Fprintf(&b, "%s\n\n", text)
		default:
			fmt.Fprintf(&b, "## Result\n\n%s\n\n", text)
		}
	}
	return b.String()
}
