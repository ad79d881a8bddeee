package engine

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/fatih/color"
	"github.com/kiosk404/andalem/pkg/logger"
)

const traceValueLimit = 500

// tracer writes the colored execution trace. Colors are forced on since the
// streams are usually buffers converted to HTML later.
type tracer struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer

	agent  *color.Color
	task   *color.Color
	tool   *color.Color
	result *color.Color
	output *color.Color
	err    *color.Color
}

func newTracer(streams Streams) *tracer {
	force := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		c.EnableColor()
		return c
	}
	if streams.Stdout == nil {
		streams.Stdout = io.Discard
	}
	if streams.Stderr == nil {
		streams.Stderr = io.Discard
	}
	return &tracer{
		stdout: streams.Stdout,
		stderr: streams.Stderr,
		agent:  force(color.FgHiMagenta, color.Bold),
		task:   force(color.FgHiBlue),
		tool:   force(color.FgHiYellow),
		result: force(color.FgHiBlack),
		output: force(color.FgHiGreen),
		err:    force(color.FgHiRed, color.Bold),
	}
}

type tracerKey struct{}

func withTracer(ctx context.Context, t *tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, t)
}

func tracerFrom(ctx context.Context) *tracer {
	if t, ok := ctx.Value(tracerKey{}).(*tracer); ok {
		return t
	}
	return newTracer(DiscardStreams())
}

func (t *tracer) print(on bool, w io.Writer, c *color.Color, format string, args ...interface{}) {
	if !on {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = c.Fprintf(w, format, args...)
	_, _ = io.WriteString(w, "\n")
}

func (t *tracer) workingAgent(on bool, role string) {
	t.print(on, t.stdout, t.agent, "[DEBUG]: == Working Agent: %s", role)
}

func (t *tracer) startingTask(on bool, description string) {
	t.print(on, t.stdout, t.task, "[INFO]: == Starting Task: %s", description)
}

func (t *tracer) taskOutput(on bool, role, output string) {
	t.print(on, t.stdout, t.output, "[DEBUG]: == [%s] Task output: %s\n", role, output)
}

func (t *tracer) toolCall(on bool, name, args string) {
	t.print(on, t.stdout, t.tool, "> Using tool: %s %s", name, args)
}

func (t *tracer) toolResult(on bool, name, result string) {
	t.print(on, t.stdout, t.result, "> Tool %s returned: %s", name, clip(result))
}

func (t *tracer) thought(on bool, text string) {
	t.print(on, t.stdout, t.result, "Thought: %s", text)
}

func (t *tracer) manager(on bool, format string, args ...interface{}) {
	t.print(on, t.stdout, t.agent, "[DEBUG]: == Crew Manager: "+format, args...)
}

func (t *tracer) failure(on bool, format string, args ...interface{}) {
	t.print(on, t.stderr, t.err, "[ERROR]: "+format, args...)
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= traceValueLimit {
		return s
	}
	return s[:traceValueLimit] + "..."
}

// callbackHandler reports model reasoning and node failures of one agent's graph.
func (t *tracer) callbackHandler(role string, verbose bool) callbacks.Handler {
	return callbacks.NewHandlerBuilder().
		OnEndFn(func(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
			if info.Component != components.ComponentOfChatModel {
				return ctx
			}
			out := model.ConvCallbackOutput(output)
			if out == nil || out.Message == nil {
				return ctx
			}
			if len(out.Message.ToolCalls) > 0 && strings.TrimSpace(out.Message.Content) != "" {
				t.thought(verbose, out.Message.Content)
			}
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			logger.Warn("[Engine] %s: error in %s/%s: %v", role, info.Component, info.Name, err)
			t.failure(verbose, "%s failed in %s: %v", role, info.Name, err)
			return ctx
		}).
		Build()
}

// tracedTool prints every call of the wrapped tool.
type tracedTool struct {
	inner   tool.InvokableTool
	verbose bool
}

var _ tool.InvokableTool = (*tracedTool)(nil)

func traceTools(tools []tool.BaseTool, verbose bool) []tool.BaseTool {
	out := make([]tool.BaseTool, 0, len(tools))
	for _, bt := range tools {
		if it, ok := bt.(tool.InvokableTool); ok {
			out = append(out, &tracedTool{inner: it, verbose: verbose})
			continue
		}
		out = append(out, bt)
	}
	return out
}

func (t *tracedTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.inner.Info(ctx)
}

func (t *tracedTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	name := "tool"
	if info, err := t.inner.Info(ctx); err == nil {
		name = info.Name
	}
	tr := tracerFrom(ctx)
	tr.toolCall(t.verbose, name, argumentsInJSON)
	out, err := t.inner.InvokableRun(ctx, argumentsInJSON, opts...)
	if err != nil {
		tr.failure(t.verbose, "tool %s failed: %v", name, err)
		return "", err
	}
	tr.toolResult(t.verbose, name, out)
	return out, nil
}

func formatRoles(roles []string) string {
	var b strings.Builder
	for _, r := range roles {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return strings.TrimRight(b.String(), "\n")
}
