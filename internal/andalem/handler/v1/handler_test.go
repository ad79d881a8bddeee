package v1

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/crew"
	crewEntity "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	crewService "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	llmEntity "github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	runtimeEntity "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
	runtimeService "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
	"github.com/kiosk404/andalem/pkg/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrchestrator validates like the real one and answers with a fixed result.
type fakeOrchestrator struct {
	mu     sync.Mutex
	runs   map[string]*runtimeEntity.Run
	answer func(ctx context.Context, opts runtimeService.RunOptions) string
}

func newFakeOrchestrator() *fakeOrchestrator {
	return &fakeOrchestrator{runs: map[string]*runtimeEntity.Run{}}
}

func (o *fakeOrchestrator) Run(ctx context.Context, sess *crewEntity.Session, opts runtimeService.RunOptions) (*runtimeEntity.Run, error) {
	if sess.Empty() {
		return nil, errno.ErrEmptyCrew
	}
	if report := crewService.Validate(sess); !report.Valid() {
		return nil, &runtimeService.InvalidCrewError{Report: report}
	}
	if opts.Sink != nil {
		opts.Sink.WriteLine(runtimeService.Line{Stream: runtimeService.StreamStdout, Raw: "working", HTML: "working"})
	}
	final := "done"
	if o.answer != nil {
		final = o.answer(ctx, opts)
	}

	run := runtimeEntity.NewRun("run-"+sess.ID, sess.ID, sess.Crew.Name)
	run.Status = runtimeEntity.RunStatusSucceeded
	run.Outputs = []runtimeEntity.OutputBlock{{Kind: runtimeEntity.OutputFinal, Raw: final, HTML: final}}
	o.mu.Lock()
	o.runs[run.ID] = run
	o.mu.Unlock()
	return run, nil
}

func (o *fakeOrchestrator) GetRun(_ context.Context, id string) (*runtimeEntity.Run, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if r, ok := o.runs[id]; ok {
		return r, nil
	}
	return nil, errno.ErrRunNotFound
}

func (o *fakeOrchestrator) ListRuns(_ context.Context, sessionID string) ([]*runtimeEntity.Run, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []*runtimeEntity.Run
	for _, r := range o.runs {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (o *fakeOrchestrator) ForgetSession(_ context.Context, sessionID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, r := range o.runs {
		if r.SessionID == sessionID {
			delete(o.runs, id)
		}
	}
	return nil
}

type fakeModels struct{}

func (fakeModels) MapLLM(context.Context, catalog.ModelKey, float64, llmEntity.RoleKind, catalog.Process) (model.BaseChatModel, error) {
	return nil, nil
}

func (fakeModels) Providers(context.Context) ([]*llmEntity.ModelProvider, error) {
	return []*llmEntity.ModelProvider{{ID: "ollama", BaseURL: "http://localhost:11434", APIKey: "hidden", Enabled: true}}, nil
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	orch   *fakeOrchestrator
	inputs *InputBroker
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mod, err := (&crew.Config{SavedCrewsDir: t.TempDir()}).Complete().New(context.Background())
	require.NoError(t, err)

	api := &testAPI{t: t, router: gin.New(), orch: newFakeOrchestrator(), inputs: NewInputBroker()}
	svc := mod.Service

	sessions := NewSessionHandler(svc, api.orch)
	agents := NewAgentHandler(svc)
	tasks := NewTaskHandler(svc)
	crews := NewCrewHandler(svc)
	files := NewFileHandler(svc)
	runs := NewRunHandler(svc, api.orch, api.inputs)
	cat := NewCatalogHandler(fakeModels{})

	g := api.router.Group("/v1")
	g.GET("/catalog", cat.Get)
	g.GET("/providers", cat.Providers)
	g.POST("/sessions", sessions.Create)
	g.GET("/sessions", sessions.List)
	g.GET("/sessions/:id", sessions.Get)
	g.DELETE("/sessions/:id", sessions.Delete)
	g.POST("/sessions/:id/agents", agents.Add)
	g.PATCH("/sessions/:id/agents/:agent", agents.Update)
	g.DELETE("/sessions/:id/agents/:agent", agents.Remove)
	g.POST("/sessions/:id/agents/:agent/tasks", tasks.Add)
	g.PATCH("/sessions/:id/agents/:agent/tasks/:number", tasks.Update)
	g.DELETE("/sessions/:id/agents/:agent/tasks/:number", tasks.Remove)
	g.PATCH("/sessions/:id/crew", crews.Update)
	g.DELETE("/sessions/:id/crew", crews.Remove)
	g.GET("/sessions/:id/validate", crews.Validate)
	g.POST("/sessions/:id/save", files.Save)
	g.POST("/sessions/:id/load", files.Load)
	g.GET("/crews", files.List)
	g.DELETE("/crews/:name", files.Delete)
	g.POST("/sessions/:id/runs", runs.Run)
	g.GET("/sessions/:id/runs", runs.List)
	g.GET("/sessions/:id/runs/:run", runs.Get)
	g.GET("/sessions/:id/runs/:run/report", runs.Report)
	g.GET("/sessions/:id/questions", runs.Questions)
	g.POST("/sessions/:id/questions/:question", runs.Answer)
	return api
}

func (a *testAPI) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		buf.Write(data)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder()}
	a.router.ServeHTTP(w, req)
	return w.ResponseRecorder
}

// streamRecorder adds the CloseNotifier gin needs to stream responses.
type streamRecorder struct {
	*httptest.ResponseRecorder
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errBody struct {
	Code     int      `json:"code"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail"`
	Messages []string `json:"messages"`
}

func (a *testAPI) newSession() string {
	w := a.do(http.MethodPost, "/v1/sessions", nil)
	require.Equal(a.t, http.StatusOK, w.Code)
	return decode[crewEntity.Session](a.t, w).ID
}

func (a *testAPI) addAgent(sessionID string) AgentResponse {
	w := a.do(http.MethodPost, "/v1/sessions/"+sessionID+"/agents", nil)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[AgentResponse](a.t, w)
}

func ptr[T any](v T) *T { return &v }

// completeCrew fills every required field of a one agent crew.
func (a *testAPI) completeCrew(sessionID string) string {
	agent := a.addAgent(sessionID)
	w := a.do(http.MethodPatch, "/v1/sessions/"+sessionID+"/agents/"+agent.ID, crewService.AgentPatch{
		Name: ptr("Ada"), Role: ptr("Researcher"), Goal: ptr("Find facts"), Backstory: ptr("Curious"),
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	w = a.do(http.MethodPatch, "/v1/sessions/"+sessionID+"/agents/"+agent.ID+"/tasks/1", crewService.TaskPatch{
		Description: ptr("Research Go"), ExpectedOutput: ptr("A summary"),
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	w = a.do(http.MethodPatch, "/v1/sessions/"+sessionID+"/crew", crewService.CrewPatch{
		Name: ptr("Research Crew"), Description: ptr("Looks things up"),
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return agent.ID
}

func TestSessionHandler(t *testing.T) {
	t.Run("Should create list get and delete sessions", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()

		list := decode[struct {
			Data []SessionSummary `json:"data"`
		}](t, api.do(http.MethodGet, "/v1/sessions", nil))
		require.Len(t, list.Data, 1)
		assert.Equal(t, id, list.Data[0].ID)

		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/v1/sessions/"+id, nil).Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/v1/sessions/"+id, nil).Code)

		w := api.do(http.MethodGet, "/v1/sessions/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, ErrSessionNotFound, decode[errBody](t, w).Code)
	})
}

func TestEditingHandlers(t *testing.T) {
	t.Run("Should add an agent with its first task and a crew", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		agent := api.addAgent(id)

		assert.Len(t, agent.ID, 4)
		require.Len(t, agent.Tasks, 1)
		assert.Equal(t, 1, agent.Tasks[0].Number)

		sess := decode[crewEntity.Session](t, api.do(http.MethodGet, "/v1/sessions/"+id, nil))
		assert.NotNil(t, sess.Crew)
	})

	t.Run("Should number tasks per agent and refuse to remove the first", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		agent := api.addAgent(id)
		base := "/v1/sessions/" + id + "/agents/" + agent.ID + "/tasks"

		task := decode[crewEntity.Task](t, api.do(http.MethodPost, base, nil))
		assert.Equal(t, 2, task.Number)

		w := api.do(http.MethodDelete, base+"/1", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, ErrFirstTaskLocked, decode[errBody](t, w).Code)

		assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, base+"/2", nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, base+"/2", nil).Code)
		assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, base+"/zero", nil).Code)

		task = decode[crewEntity.Task](t, api.do(http.MethodPost, base, nil))
		assert.Equal(t, 3, task.Number)
	})

	t.Run("Should reject out of range settings and unknown catalog keys", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		agent := api.addAgent(id)
		path := "/v1/sessions/" + id + "/agents/" + agent.ID

		w := api.do(http.MethodPatch, path, crewService.AgentPatch{LLMTemperature: ptr(1.5)})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = api.do(http.MethodPatch, path, crewService.AgentPatch{Tools: []catalog.ToolKey{"Hammer"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrValidation, decode[errBody](t, w).Code)
	})

	t.Run("Should report missing fields without failing", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.addAgent(id)

		resp := decode[ValidateResponse](t, api.do(http.MethodGet, "/v1/sessions/"+id+"/validate", nil))
		assert.False(t, resp.Valid)
		assert.NotEmpty(t, resp.Messages)
	})

	t.Run("Should clear the configuration when the crew is removed", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.completeCrew(id)

		assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/v1/sessions/"+id+"/crew", nil).Code)
		sess := decode[crewEntity.Session](t, api.do(http.MethodGet, "/v1/sessions/"+id, nil))
		assert.Empty(t, sess.Agents)
		assert.Nil(t, sess.Crew)
	})
}

func TestFileHandler(t *testing.T) {
	t.Run("Should save list load and delete crew files", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.completeCrew(id)

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/save", SaveCrewRequest{Name: "Research Crew"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "research_crew", decode[map[string]interface{}](t, w)["name"])

		w = api.do(http.MethodPost, "/v1/sessions/"+id+"/save", SaveCrewRequest{Name: "research crew"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, decode[errBody](t, w).Detail, "Overwrite Existing")

		w = api.do(http.MethodPost, "/v1/sessions/"+id+"/save", SaveCrewRequest{Name: "research crew", Overwrite: true})
		assert.Equal(t, http.StatusOK, w.Code)

		list := decode[struct {
			Data []string `json:"data"`
		}](t, api.do(http.MethodGet, "/v1/crews", nil))
		assert.Equal(t, []string{"research_crew"}, list.Data)

		other := api.newSession()
		w = api.do(http.MethodPost, "/v1/sessions/"+other+"/load", LoadCrewRequest{Name: "research_crew"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		sess := decode[crewEntity.Session](t, w)
		assert.Equal(t, "research_crew", sess.CurrentCrew)
		require.NotNil(t, sess.Crew)
		assert.Equal(t, "Research Crew", sess.Crew.Name)

		assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/v1/crews/research_crew", nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/v1/crews/research_crew", nil).Code)
	})

	t.Run("Should reject an empty file name", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.completeCrew(id)

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/save", SaveCrewRequest{Name: "  !! "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file name entered!", decode[errBody](t, w).Detail)
	})

	t.Run("Should leave the session untouched when the file is missing", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		agentID := api.completeCrew(id)

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/load", LoadCrewRequest{Name: "nothing_here"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		sess := decode[crewEntity.Session](t, api.do(http.MethodGet, "/v1/sessions/"+id, nil))
		require.Len(t, sess.Agents, 1)
		assert.Equal(t, agentID, sess.Agents[0].ID)
	})
}

func TestRunHandler(t *testing.T) {
	t.Run("Should refuse an empty crew", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/runs", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, ErrEmptyCrew, decode[errBody](t, w).Code)
	})

	t.Run("Should return the validation dialog of an incomplete crew", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.addAgent(id)

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/runs", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decode[errBody](t, w)
		assert.Equal(t, ErrCrewNotReady, body.Code)
		assert.NotEmpty(t, body.Messages)
	})

	t.Run("Should run a complete crew and serve the run and its report", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.completeCrew(id)

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/runs", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		run := decode[RunResponse](t, w)
		assert.Equal(t, runtimeEntity.RunStatusSucceeded, run.Status)

		w = api.do(http.MethodGet, "/v1/sessions/"+id+"/runs/"+run.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = api.do(http.MethodGet, "/v1/sessions/"+id+"/runs/"+run.ID+"/report", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Research Crew</h1>")

		other := api.newSession()
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/v1/sessions/"+other+"/runs/"+run.ID, nil).Code)
	})

	t.Run("Should stream trace lines and the final run as events", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.completeCrew(id)

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/runs", nil, "Accept", "text/event-stream")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "event:line")
		assert.Contains(t, body, "event:run")
		assert.Less(t, strings.Index(body, "event:line"), strings.Index(body, "event:run"))
	})

	t.Run("Should stream the rejection of an incomplete crew", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.addAgent(id)

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/runs", nil, "Accept", "text/event-stream")
		assert.Contains(t, w.Body.String(), "event:error")
	})

	t.Run("Should route questions of interactive runs to the questions endpoints", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.completeCrew(id)
		api.orch.answer = func(ctx context.Context, opts runtimeService.RunOptions) string {
			a, err := opts.Input.Ask(ctx, "Which topic?")
			if err != nil {
				return err.Error()
			}
			return "answered " + a
		}

		done := make(chan *httptest.ResponseRecorder, 1)
		go func() {
			done <- api.do(http.MethodPost, "/v1/sessions/"+id+"/runs", RunRequest{Interactive: true})
		}()

		var pending []Question
		require.Eventually(t, func() bool {
			pending = decode[struct {
				Data []Question `json:"data"`
			}](t, api.do(http.MethodGet, "/v1/sessions/"+id+"/questions", nil)).Data
			return len(pending) == 1
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, "Which topic?", pending[0].Question)

		w := api.do(http.MethodPost, "/v1/sessions/"+id+"/questions/"+pending[0].ID, AnswerRequest{Answer: "Go"})
		require.Equal(t, http.StatusOK, w.Code)

		resp := <-done
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		run := decode[RunResponse](t, resp)
		require.Len(t, run.Outputs, 1)
		assert.Equal(t, "answered Go", run.Outputs[0].Raw)

		w = api.do(http.MethodPost, "/v1/sessions/"+id+"/questions/"+pending[0].ID, AnswerRequest{Answer: "again"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Should keep running after the client goes away", func(t *testing.T) {
		api := newTestAPI(t)
		id := api.newSession()
		api.completeCrew(id)
		api.orch.answer = func(ctx context.Context, _ runtimeService.RunOptions) string {
			if ctx.Err() != nil {
				return "cancelled"
			}
			return "finished"
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+id+"/runs", nil).WithContext(ctx)
		w := &streamRecorder{ResponseRecorder: httptest.NewRecorder()}
		api.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		run := decode[RunResponse](t, w.ResponseRecorder)
		require.Len(t, run.Outputs, 1)
		assert.Equal(t, "finished", run.Outputs[0].Raw)
	})
}

func TestCatalogHandler(t *testing.T) {
	t.Run("Should list every catalog table", func(t *testing.T) {
		api := newTestAPI(t)
		resp := decode[CatalogResponse](t, api.do(http.MethodGet, "/v1/catalog", nil))

		assert.Len(t, resp.Models, len(catalog.Models()))
		assert.Len(t, resp.Tools, len(catalog.Tools()))
		assert.Equal(t, catalog.Processes(), resp.Processes)
		assert.NotEmpty(t, resp.Fields.Agent)
	})

	t.Run("Should hide provider keys", func(t *testing.T) {
		api := newTestAPI(t)
		w := api.do(http.MethodGet, "/v1/providers", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "hidden")
	})
}
