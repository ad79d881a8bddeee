package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/engine/memory"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
	"github.com/kiosk404/andalem/pkg/logger"
)

const defaultRecallLimit = 3

// Config configures the crew engine.
type Config struct {
	// Memory backs agents and crews with memory enabled. Nil disables recall.
	Memory      *memory.Store
	RecallLimit int
}

type crewEngine struct {
	memory      *memory.Store
	recallLimit int
	flows       *AgentFlowBuilder
}

// New returns the eino backed crew engine.
func New(cfg Config) Engine {
	limit := cfg.RecallLimit
	if limit <= 0 {
		limit = defaultRecallLimit
	}
	return &crewEngine{
		memory:      cfg.Memory,
		recallLimit: limit,
		flows:       NewAgentFlowBuilder(),
	}
}

type runnable = compose.Runnable[[]*schema.Message, *schema.Message]

// member is a built agent. plain runs without delegation tools and serves
// coworker requests; full is used for the agent's own tasks.
type member struct {
	spec  *AgentSpec
	plain runnable
	full  runnable
}

type pipeline struct {
	spec        *PipelineSpec
	members     []*member
	byID        map[string]*member
	manager     model.BaseChatModel
	memory      *memory.Store
	recallLimit int
}

// Build validates spec and compiles one runnable per agent. Every model call
// waits on the agent's own limiter and the limiter shared by the crew.
func (e *crewEngine) Build(ctx context.Context, spec *PipelineSpec) (Pipeline, error) {
	if len(spec.Agents) == 0 {
		return nil, errno.ErrEmptyCrew
	}
	for _, t := range spec.Tasks {
		if spec.Agent(t.AgentID) == nil {
			return nil, fmt.Errorf("%w: %s", errno.ErrUnknownAgent, t.AgentID)
		}
	}
	hierarchical := spec.Crew.Process == catalog.ProcessHierarchical
	if hierarchical && spec.Crew.ManagerLLM == nil {
		return nil, errno.ErrManagerRequired
	}

	p := &pipeline{
		spec:        spec,
		byID:        make(map[string]*member, len(spec.Agents)),
		memory:      e.memory,
		recallLimit: e.recallLimit,
	}
	crewLimiter := NewLimiter(spec.Crew.MaxRPM)
	if hierarchical {
		p.manager = RateLimit(spec.Crew.ManagerLLM, crewLimiter)
	}

	delegation := len(spec.Agents) > 1
	for _, a := range spec.Agents {
		llm := RateLimit(a.LLM, NewLimiter(a.MaxRPM), crewLimiter)
		tools := traceTools(a.Tools, a.Verbose)

		plain, err := e.flows.Build(ctx, a, llm, tools)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", a.ID, err)
		}
		m := &member{spec: a, plain: plain, full: plain}
		if a.AllowDelegation && delegation {
			withCoworkers := append(tools[:len(tools):len(tools)], delegationTools(p, a.ID)...)
			if m.full, err = e.flows.Build(ctx, a, llm, withCoworkers); err != nil {
				return nil, fmt.Errorf("agent %s: %w", a.ID, err)
			}
		}
		p.members = append(p.members, m)
		p.byID[a.ID] = m
	}

	logger.InfoX(pkg.ModuleName, "[Engine] built crew %q: %d agents, %d tasks, process=%s",
		spec.Crew.Name, len(spec.Agents), len(spec.Tasks), spec.Crew.Process)
	return p, nil
}

// Run executes the tasks in order. Each task receives the previous task's
// output as context.
func (p *pipeline) Run(ctx context.Context, streams Streams) (*AggregateOutput, error) {
	ctx = withTracer(ctx, newTracer(streams))
	out := &AggregateOutput{Tasks: []TaskOutput{}}

	var previous string
	for _, t := range p.spec.Tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			m      *member
			answer string
			err    error
		)
		if p.manager != nil {
			m, answer, err = p.manage(ctx, t, previous)
		} else {
			m = p.byID[t.AgentID]
			answer, err = p.execute(ctx, m, t, previous)
		}
		if err != nil {
			return nil, err
		}

		out.Tasks = append(out.Tasks, TaskOutput{
			AgentID:     t.AgentID,
			TaskNumber:  t.Number,
			WorkerID:    m.spec.ID,
			Agent:       m.spec.Role,
			Description: t.Description,
			RawOutput:   answer,
		})
		previous = answer
	}
	out.Final = previous
	return out, nil
}

// execute runs one task on m, including the optional human feedback round.
func (p *pipeline) execute(ctx context.Context, m *member, t *TaskSpec, taskContext string) (string, error) {
	tr := tracerFrom(ctx)
	verbose := p.spec.Crew.Verbose
	tr.workingAgent(verbose, m.spec.Role)
	tr.startingTask(verbose, t.Description)

	msgs := p.messages(m, taskPrompt(t, taskContext, p.recall(ctx, m, t)))
	answer, err := p.invoke(ctx, m, m.full, msgs)
	if err != nil {
		return "", err
	}

	if t.HumanInput && p.spec.Input != nil {
		feedback, err := p.spec.Input.Ask(ctx, humanInputQuestion(t, answer))
		if err != nil {
			return "", fmt.Errorf("human input: %w", err)
		}
		if strings.TrimSpace(feedback) != "" {
			msgs = append(msgs, schema.AssistantMessage(answer, nil), schema.UserMessage(feedbackPrompt(feedback)))
			if answer, err = p.invoke(ctx, m, m.full, msgs); err != nil {
				return "", err
			}
		}
	}

	p.remember(ctx, m, t, answer)
	tr.taskOutput(verbose, m.spec.Role, answer)
	return answer, nil
}

// manage lets the manager pick the worker of t and review the answer.
func (p *pipeline) manage(ctx context.Context, t *TaskSpec, taskContext string) (*member, string, error) {
	tr := tracerFrom(ctx)
	verbose := p.spec.Crew.Verbose

	pick, err := p.askManager(ctx, assignPrompt(t, p.spec.Agents))
	if err != nil {
		return nil, "", err
	}
	m := p.memberByRole(pick, "")
	if m == nil {
		m = p.byID[t.AgentID]
	}
	tr.manager(verbose, "delegating %q to %s", t.Description, m.spec.Role)

	answer, err := p.execute(ctx, m, t, taskContext)
	if err != nil {
		return nil, "", err
	}

	verdict, err := p.askManager(ctx, reviewPrompt(t, m.spec.Role, answer))
	if err != nil {
		return nil, "", err
	}
	verdict = strings.TrimSpace(verdict)
	if verdict == "" || strings.EqualFold(strings.TrimRight(verdict, ".!"), approved) {
		tr.manager(verbose, "approved the answer of %s", m.spec.Role)
		return m, answer, nil
	}
	tr.manager(verbose, "revised the answer of %s", m.spec.Role)
	return m, verdict, nil
}

func (p *pipeline) askManager(ctx context.Context, prompt string) (string, error) {
	msg, err := p.manager.Generate(ctx, []*schema.Message{
		schema.SystemMessage(managerSystemPrompt(p.spec.Crew)),
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("crew manager: %w", err)
	}
	return msg.Content, nil
}

func (p *pipeline) messages(m *member, prompt string) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(systemPrompt(m.spec)),
		schema.UserMessage(prompt),
	}
}

func (p *pipeline) invoke(ctx context.Context, m *member, r runnable, msgs []*schema.Message) (string, error) {
	handler := tracerFrom(ctx).callbackHandler(m.spec.Role, m.spec.Verbose)
	out, err := r.Invoke(ctx, msgs, compose.WithCallbacks(handler))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Content), nil
}

func (p *pipeline) memoryOn(m *member) bool {
	return p.memory != nil && (m.spec.Memory || p.spec.Crew.Memory)
}

func (p *pipeline) recall(ctx context.Context, m *member, t *TaskSpec) []*memory.Entry {
	if !p.memoryOn(m) {
		return nil
	}
	q := memory.Query{Crew: p.spec.Crew.Name, Text: t.Description, Limit: p.recallLimit}
	if !p.spec.Crew.Memory {
		q.AgentRole = m.spec.Role
	}
	entries, err := p.memory.Recall(ctx, q)
	if err != nil {
		logger.WarnX(pkg.ModuleName, "[Engine] recall for %s failed: %v", m.spec.Role, err)
		return nil
	}
	return entries
}

func (p *pipeline) remember(ctx context.Context, m *member, t *TaskSpec, answer string) {
	if !p.memoryOn(m) {
		return
	}
	err := p.memory.Save(ctx, &memory.Entry{
		Crew:      p.spec.Crew.Name,
		AgentRole: m.spec.Role,
		Task:      t.Description,
		Output:    answer,
	})
	if err != nil {
		logger.WarnX(pkg.ModuleName, "[Engine] saving memory of %s failed: %v", m.spec.Role, err)
	}
}

// memberByRole finds a member by role, skipping the agent with id exclude.
func (p *pipeline) memberByRole(role, exclude string) *member {
	key := roleKey(role)
	if key == "" {
		return nil
	}
	for _, m := range p.members {
		if m.spec.ID != exclude && roleKey(m.spec.Role) == key {
			return m
		}
	}
	return nil
}

func (p *pipeline) coworkerRoles(self string) []string {
	var roles []string
	for _, m := range p.members {
		if m.spec.ID != self {
			roles = append(roles, m.spec.Role)
		}
	}
	return roles
}
