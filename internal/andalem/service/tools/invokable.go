package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/pkg/utils/json"
)

// InvokableTool adapts a catalog Tool to eino's tool.InvokableTool so a ReAct
// agent can call it.
type InvokableTool struct {
	entry catalog.ToolEntry
	tool  Tool
}

var _ tool.InvokableTool = (*InvokableTool)(nil)

// NewInvokableTool wraps t under the name and description of entry.
func NewInvokableTool(entry catalog.ToolEntry, t Tool) *InvokableTool {
	return &InvokableTool{entry: entry, tool: t}
}

// Key returns the catalog key of the wrapped tool.
func (t *InvokableTool) Key() catalog.ToolKey {
	return t.entry.Key
}

func (t *InvokableTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.entry.Name,
		Desc: t.entry.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"url": {
				Type: schema.String,
				Desc: "URL the tool works on.",
			},
			"query": {
				Type: schema.String,
				Desc: "Free text query, search terms or question.",
			},
		}),
	}, nil
}

// InvokableRun decodes {"url", "query"} and runs the tool.
func (t *InvokableTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var in Input
	if argumentsInJSON != "" && argumentsInJSON != "{}" {
		if err := json.Unmarshal([]byte(argumentsInJSON), &in); err != nil {
			return "", fmt.Errorf("failed to unmarshal arguments JSON: %w", err)
		}
	}

	res, err := t.tool.Run(ctx, in)
	if err != nil {
		return "", fmt.Errorf("tool %q failed: %w", t.entry.Name, err)
	}
	return res.String(), nil
}
