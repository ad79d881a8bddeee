package engine

import (
	"context"
	"fmt"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
	"github.com/kiosk404/andalem/pkg/logger"
)

// stepsPerIteration covers one model turn and one tools turn of the ReAct loop.
const stepsPerIteration = 2

// AgentFlowBuilder constructs the eino runnable that executes one agent.
//
// With tools it builds a ReAct agent handling the LLM → tool_call → execute →
// result loop; without tools a plain ChatModel chain.
type AgentFlowBuilder struct{}

func NewAgentFlowBuilder() *AgentFlowBuilder {
	return &AgentFlowBuilder{}
}

// Build compiles a runnable for agent over chatModel and tools.
func (b *AgentFlowBuilder) Build(
	ctx context.Context,
	agent *AgentSpec,
	chatModel einoModel.BaseChatModel,
	tools []tool.BaseTool,
) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	if len(tools) > 0 {
		return b.buildWithTools(ctx, agent, chatModel, tools)
	}
	return b.buildWithoutTools(ctx, agent, chatModel)
}

// buildWithTools creates a ReAct agent and wraps it as compose.Runnable via Chain + AnyLambda.
func (b *AgentFlowBuilder) buildWithTools(
	ctx context.Context,
	agent *AgentSpec,
	chatModel einoModel.BaseChatModel,
	tools []tool.BaseTool,
) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	tcm, ok := chatModel.(einoModel.ToolCallingChatModel)
	if !ok {
		return nil, fmt.Errorf("%w: agent %s", errno.ErrModelNotToolCapable, agent.ID)
	}

	maxIter := agent.MaxIterations
	if maxIter <= 0 {
		maxIter = 1
	}
	reactAgent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: tcm,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
		MaxStep: maxIter*stepsPerIteration + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ReAct agent: %w", err)
	}

	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	agentLambda, err := compose.AnyLambda(reactAgent.Generate, reactAgent.Stream, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent lambda: %w", err)
	}
	chain.AppendLambda(agentLambda)

	runnable, err := chain.Compile(ctx, compose.WithGraphName("andalem_agent_"+agent.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to compile ReAct agent chain: %w", err)
	}

	logger.Debug("[AgentFlow] built ReAct agent for %q with %d tools, max_iterations=%d",
		agent.ID, len(tools), maxIter)
	return runnable, nil
}

// buildWithoutTools creates a simple ChatModel chain (no tool loop).
func (b *AgentFlowBuilder) buildWithoutTools(
	ctx context.Context,
	agent *AgentSpec,
	chatModel einoModel.BaseChatModel,
) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	chain := compose.NewChain[[]*schema.Message, *schema.Message]()

	chatLambda, err := compose.AnyLambda(
		func(ctx context.Context, messages []*schema.Message, opts ...einoModel.Option) (*schema.Message, error) {
			return chatModel.Generate(ctx, messages, opts...)
		},
		func(ctx context.Context, messages []*schema.Message, opts ...einoModel.Option) (*schema.StreamReader[*schema.Message], error) {
			return chatModel.Stream(ctx, messages, opts...)
		},
		nil, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat lambda: %w", err)
	}
	chain.AppendLambda(chatLambda)

	runnable, err := chain.Compile(ctx, compose.WithGraphName("andalem_agent_simple_"+agent.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to compile simple agent chain: %w", err)
	}

	logger.Debug("[AgentFlow] built simple ChatModel agent for %q (no tools)", agent.ID)
	return runnable, nil
}
