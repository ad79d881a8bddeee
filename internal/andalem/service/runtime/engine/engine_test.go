package engine

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/engine/memory"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
	"github.com/kiosk404/andalem/internal/andalem/service/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedModel struct {
	mu    sync.Mutex
	reply func(msgs []*schema.Message) (string, error)
	calls [][]*schema.Message
}

func newScriptedModel(reply func(msgs []*schema.Message) (string, error)) *scriptedModel {
	return &scriptedModel{reply: reply}
}

func answering(text string) *scriptedModel {
	return newScriptedModel(func([]*schema.Message) (string, error) { return text, nil })
}

func (m *scriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]*schema.Message(nil), input...))
	m.mu.Unlock()
	text, err := m.reply(input)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(text, nil), nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *scriptedModel) Calls() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// toolModel is a scriptedModel that accepts tool bindings.
type toolModel struct {
	*scriptedModel
}

func (m *toolModel) WithTools(_ []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func lastUser(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == schema.User {
			return msgs[i].Content
		}
	}
	return ""
}

func agent(id, role string, llm model.BaseChatModel) *AgentSpec {
	return &AgentSpec{
		ID:            id,
		Name:          strings.ToUpper(id),
		Role:          role,
		Goal:          "do good work",
		Backstory:     "seasoned",
		LLM:           llm,
		MaxIterations: 5,
	}
}

func task(agentID string, number int, description string) *TaskSpec {
	return &TaskSpec{
		AgentID:        agentID,
		Number:         number,
		Description:    description,
		ExpectedOutput: "a short text",
	}
}

func build(t *testing.T, e Engine, spec *PipelineSpec) *pipeline {
	t.Helper()
	p, err := e.Build(context.Background(), spec)
	require.NoError(t, err)
	return p.(*pipeline)
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	e := New(Config{})

	t.Run("Should reject a crew without agents", func(t *testing.T) {
		_, err := e.Build(ctx, &PipelineSpec{})
		assert.ErrorIs(t, err, errno.ErrEmptyCrew)
	})

	t.Run("Should reject tasks of unknown agents", func(t *testing.T) {
		_, err := e.Build(ctx, &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", answering("x"))},
			Tasks:  []*TaskSpec{task("zz", 1, "write")},
		})
		assert.ErrorIs(t, err, errno.ErrUnknownAgent)
	})

	t.Run("Should require a manager model for the hierarchical process", func(t *testing.T) {
		_, err := e.Build(ctx, &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", answering("x"))},
			Crew:   CrewSpec{Process: catalog.ProcessHierarchical},
		})
		assert.ErrorIs(t, err, errno.ErrManagerRequired)
	})

	t.Run("Should require tool calling when an agent delegates", func(t *testing.T) {
		writer := agent("a1", "Writer", answering("x"))
		writer.AllowDelegation = true
		_, err := e.Build(ctx, &PipelineSpec{
			Agents: []*AgentSpec{writer, agent("a2", "Editor", answering("y"))},
		})
		assert.ErrorIs(t, err, errno.ErrModelNotToolCapable)
	})

	t.Run("Should ignore delegation of a sole agent", func(t *testing.T) {
		writer := agent("a1", "Writer", answering("x"))
		writer.AllowDelegation = true
		p := build(t, e, &PipelineSpec{Agents: []*AgentSpec{writer}})
		require.Len(t, p.members, 1)
		assert.Nil(t, p.manager)
	})
}

func TestRunSequential(t *testing.T) {
	ctx := context.Background()

	t.Run("Should pass each output to the next task as context", func(t *testing.T) {
		writer := answering("draft about go")
		editor := answering("polished draft")
		p := build(t, New(Config{}), &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", writer), agent("a2", "Editor", editor)},
			Tasks:  []*TaskSpec{task("a1", 1, "write a draft"), task("a2", 1, "edit the draft")},
			Crew:   CrewSpec{Name: "blog", Process: catalog.ProcessSequential},
		})

		out, err := p.Run(ctx, DiscardStreams())
		require.NoError(t, err)
		assert.Equal(t, "polished draft", out.Final)
		require.Len(t, out.Tasks, 2)
		assert.Equal(t, "Writer", out.Tasks[0].Agent)
		assert.Equal(t, "draft about go", out.Tasks[0].RawOutput)
		assert.Equal(t, "edit the draft", out.Tasks[1].Description)

		require.Len(t, editor.Calls(), 1)
		prompt := lastUser(editor.Calls()[0])
		assert.Contains(t, prompt, "Current Task: edit the draft")
		assert.Contains(t, prompt, "draft about go")
		assert.Equal(t, schema.System, editor.Calls()[0][0].Role)
		assert.Contains(t, editor.Calls()[0][0].Content, "You are Editor.")
	})

	t.Run("Should revise the answer with human feedback", func(t *testing.T) {
		calls := 0
		writer := newScriptedModel(func([]*schema.Message) (string, error) {
			calls++
			if calls == 1 {
				return "long answer", nil
			}
			return "short answer", nil
		})
		human := task("a1", 1, "write")
		human.HumanInput = true
		var question string
		p := build(t, New(Config{}), &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", writer)},
			Tasks:  []*TaskSpec{human},
			Input: tools.InputProviderFunc(func(_ context.Context, q string) (string, error) {
				question = q
				return "make it shorter", nil
			}),
		})

		out, err := p.Run(ctx, DiscardStreams())
		require.NoError(t, err)
		assert.Equal(t, "short answer", out.Final)
		assert.Contains(t, question, "long answer")
		require.Len(t, writer.Calls(), 2)
		revision := writer.Calls()[1]
		assert.Equal(t, "long answer", revision[len(revision)-2].Content)
		assert.Contains(t, lastUser(revision), "make it shorter")
	})

	t.Run("Should keep the answer when the feedback is empty", func(t *testing.T) {
		writer := answering("fine answer")
		human := task("a1", 1, "write")
		human.HumanInput = true
		p := build(t, New(Config{}), &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", writer)},
			Tasks:  []*TaskSpec{human},
			Input: tools.InputProviderFunc(func(context.Context, string) (string, error) {
				return "  ", nil
			}),
		})

		out, err := p.Run(ctx, DiscardStreams())
		require.NoError(t, err)
		assert.Equal(t, "fine answer", out.Final)
		assert.Len(t, writer.Calls(), 1)
	})

	t.Run("Should stop at the first failing task", func(t *testing.T) {
		boom := errors.New("status code: 429")
		failing := newScriptedModel(func([]*schema.Message) (string, error) { return "", boom })
		second := answering("never")
		p := build(t, New(Config{}), &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", failing), agent("a2", "Editor", second)},
			Tasks:  []*TaskSpec{task("a1", 1, "write"), task("a2", 1, "edit")},
		})

		_, err := p.Run(ctx, DiscardStreams())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code: 429")
		assert.Empty(t, second.Calls())
	})

	t.Run("Should write the trace when the crew is verbose", func(t *testing.T) {
		p := build(t, New(Config{}), &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", answering("done"))},
			Tasks:  []*TaskSpec{task("a1", 1, "write a haiku")},
			Crew:   CrewSpec{Verbose: true},
		})

		var stdout bytes.Buffer
		_, err := p.Run(ctx, Streams{Stdout: &stdout})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Working Agent: Writer")
		assert.Contains(t, stdout.String(), "Starting Task: write a haiku")
		assert.Contains(t, stdout.String(), "Task output: done")
	})

	t.Run("Should recall memories of earlier runs", func(t *testing.T) {
		store, err := memory.Open(filepath.Join(t.TempDir(), "memory.db"))
		require.NoError(t, err)
		defer store.Close()

		writer := answering("gophers are great")
		spec := &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", writer)},
			Tasks:  []*TaskSpec{task("a1", 1, "write about gophers")},
			Crew:   CrewSpec{Name: "zoo", Memory: true},
		}
		p := build(t, New(Config{Memory: store}), spec)

		_, err = p.Run(ctx, DiscardStreams())
		require.NoError(t, err)
		_, err = p.Run(ctx, DiscardStreams())
		require.NoError(t, err)

		require.Len(t, writer.Calls(), 2)
		assert.NotContains(t, lastUser(writer.Calls()[0]), "what you remember")
		assert.Contains(t, lastUser(writer.Calls()[1]), "gophers are great")
	})
}

func TestRunHierarchical(t *testing.T) {
	ctx := context.Background()

	manager := func(pick, verdict string) *scriptedModel {
		return newScriptedModel(func(msgs []*schema.Message) (string, error) {
			if strings.Contains(lastUser(msgs), "Which coworker") {
				return pick, nil
			}
			return verdict, nil
		})
	}

	t.Run("Should let the manager assign the task to a coworker", func(t *testing.T) {
		writer := answering("writer answer")
		editor := answering("editor answer")
		p := build(t, New(Config{}), &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", writer), agent("a2", "Editor", editor)},
			Tasks:  []*TaskSpec{task("a1", 1, "polish the text")},
			Crew: CrewSpec{
				Process:    catalog.ProcessHierarchical,
				ManagerLLM: manager(" editor ", "APPROVED"),
			},
		})

		out, err := p.Run(ctx, DiscardStreams())
		require.NoError(t, err)
		assert.Equal(t, "editor answer", out.Final)
		assert.Equal(t, "Editor", out.Tasks[0].Agent)
		assert.Equal(t, "a1", out.Tasks[0].AgentID)
		assert.Equal(t, "a2", out.Tasks[0].WorkerID)
		assert.Empty(t, writer.Calls())
	})

	t.Run("Should fall back to the task owner and keep the manager's revision", func(t *testing.T) {
		writer := answering("rough")
		p := build(t, New(Config{}), &PipelineSpec{
			Agents: []*AgentSpec{agent("a1", "Writer", writer), agent("a2", "Editor", answering("unused"))},
			Tasks:  []*TaskSpec{task("a1", 1, "write")},
			Crew: CrewSpec{
				Process:    catalog.ProcessHierarchical,
				ManagerLLM: manager("nobody", "refined by the manager"),
			},
		})

		out, err := p.Run(ctx, DiscardStreams())
		require.NoError(t, err)
		assert.Equal(t, "Writer", out.Tasks[0].Agent)
		assert.Equal(t, "a1", out.Tasks[0].WorkerID)
		assert.Equal(t, "refined by the manager", out.Final)
		assert.Len(t, writer.Calls(), 1)
	})
}

func TestCoworkerTool(t *testing.T) {
	ctx := context.Background()
	writer := agent("a1", "Writer", &toolModel{answering("writer")})
	writer.AllowDelegation = true
	researcher := &toolModel{answering("the facts")}
	p := build(t, New(Config{}), &PipelineSpec{
		Agents: []*AgentSpec{writer, agent("a2", "Researcher", researcher)},
		Tasks:  []*TaskSpec{task("a1", 1, "write")},
	})
	delegate, ask := delegationTools(p, "a1")[0].(*coworkerTool), delegationTools(p, "a1")[1].(*coworkerTool)

	t.Run("Should describe the coworkers", func(t *testing.T) {
		info, err := delegate.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, delegateToolName, info.Name)
		assert.Contains(t, info.Desc, "- Researcher")
		assert.NotContains(t, info.Desc, "- Writer")

		info, err = ask.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, askToolName, info.Name)
	})

	t.Run("Should hand the work to the coworker", func(t *testing.T) {
		out, err := ask.InvokableRun(ctx, `{"question":"what is go?","context":"a blog","coworker":"researcher"}`)
		require.NoError(t, err)
		assert.Equal(t, "the facts", out)
		calls := researcher.Calls()
		require.NotEmpty(t, calls)
		assert.Contains(t, lastUser(calls[len(calls)-1]), "what is go?")
		assert.Contains(t, lastUser(calls[len(calls)-1]), "a blog")
	})

	t.Run("Should list the valid coworkers for an unknown one", func(t *testing.T) {
		out, err := delegate.InvokableRun(ctx, `{"task":"x","coworker":"Writer"}`)
		require.NoError(t, err)
		assert.Equal(t, "Error executing tool. Co-worker mentioned not found, it must be one of the following options:\n- Researcher", out)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("Should leave the model alone when unlimited", func(t *testing.T) {
		m := answering("x")
		zero := 0
		assert.Nil(t, NewLimiter(nil))
		assert.Nil(t, NewLimiter(&zero))
		assert.Same(t, m, RateLimit(m, nil, NewLimiter(&zero)))
	})

	t.Run("Should keep tool calling support", func(t *testing.T) {
		rpm := 600
		limited := RateLimit(&toolModel{answering("x")}, NewLimiter(&rpm))
		tcm, ok := limited.(model.ToolCallingChatModel)
		require.True(t, ok)
		bound, err := tcm.WithTools(nil)
		require.NoError(t, err)
		msg, err := bound.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
		require.NoError(t, err)
		assert.Equal(t, "x", msg.Content)
	})

	t.Run("Should stop waiting when the context ends", func(t *testing.T) {
		rpm := 1
		limiter := NewLimiter(&rpm)
		limited := RateLimit(answering("x"), limiter)
		_, err := limited.Generate(context.Background(), nil)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = limited.Generate(ctx, nil)
		assert.Error(t, err)
	})
}
