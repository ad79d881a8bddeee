package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/andalem/pkg/utils/json"
)

const (
	delegateToolName = "delegate_work_to_coworker"
	askToolName      = "ask_question_to_coworker"
)

type coworkerArgs struct {
	Task     string `json:"task,omitempty"`
	Question string `json:"question,omitempty"`
	Context  string `json:"context,omitempty"`
	Coworker string `json:"coworker"`
}

// coworkerTool lets an agent hand work or a question to another member of the crew.
type coworkerTool struct {
	p    *pipeline
	self string
	ask  bool
}

var _ tool.InvokableTool = (*coworkerTool)(nil)

func delegationTools(p *pipeline, self string) []tool.BaseTool {
	return []tool.BaseTool{
		&coworkerTool{p: p, self: self},
		&coworkerTool{p: p, self: self, ask: true},
	}
}

func (t *coworkerTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	coworkers := formatRoles(t.p.coworkerRoles(t.self))
	field, name, desc := "task", delegateToolName,
		"Delegate a specific task to one of the following coworkers:\n"+coworkers+
			"\nThe input must contain the task, the full context and the coworker's role. "+
			"The coworker knows nothing about the task, share everything you know."
	if t.ask {
		field, name, desc = "question", askToolName,
			"Ask a specific question to one of the following coworkers:\n"+coworkers+
				"\nThe input must contain the question, the full context and the coworker's role. "+
				"The coworker knows nothing about the question, share everything you know."
	}
	return &schema.ToolInfo{
		Name: name,
		Desc: desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			field: {
				Type:     schema.String,
				Desc:     "The " + field + " for the coworker.",
				Required: true,
			},
			"context": {
				Type: schema.String,
				Desc: "Everything the coworker needs to know.",
			},
			"coworker": {
				Type:     schema.String,
				Desc:     "Role of the coworker.",
				Required: true,
			},
		}),
	}, nil
}

func (t *coworkerTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args coworkerArgs
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return "", fmt.Errorf("failed to unmarshal arguments JSON: %w", err)
	}
	work := args.Task
	if t.ask {
		work = args.Question
	}

	m := t.p.memberByRole(args.Coworker, t.self)
	if m == nil {
		return "Error executing tool. Co-worker mentioned not found, it must be one of the following options:\n" +
			formatRoles(t.p.coworkerRoles(t.self)), nil
	}

	tr := tracerFrom(ctx)
	tr.workingAgent(m.spec.Verbose, m.spec.Role)
	answer, err := t.p.invoke(ctx, m, m.plain, t.p.messages(m, delegatePrompt(work, args.Context)))
	if err != nil {
		return "", err
	}
	tr.taskOutput(m.spec.Verbose, m.spec.Role, answer)
	return answer, nil
}

// roleKey normalizes a role for lookup.
func roleKey(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
