package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	crewEntity "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	llmEntity "github.com/kiosk404/andalem/internal/andalem/service/llm/domain/entity"
	llmService "github.com/kiosk404/andalem/internal/andalem/service/llm/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/engine"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
	"github.com/kiosk404/andalem/internal/andalem/service/tools"
	"github.com/kiosk404/andalem/pkg/logger"
)

// ToolMapper turns tool catalog keys into eino tools.
type ToolMapper interface {
	MapTool(key catalog.ToolKey) (tool.InvokableTool, error)
}

// ToolMapperFactory binds a ToolMapper to the input provider of one run.
type ToolMapperFactory func(input tools.InputProvider) ToolMapper

// ToolsFactory adapts a tools.Mapper.
func ToolsFactory(m *tools.Mapper) ToolMapperFactory {
	return func(input tools.InputProvider) ToolMapper {
		if input == nil {
			return m
		}
		return m.WithInputProvider(input)
	}
}

// PipelineBuilder maps a session snapshot into a pipeline spec.
type PipelineBuilder struct {
	models llmService.ModelMapper
	tools  ToolMapperFactory
}

func NewPipelineBuilder(models llmService.ModelMapper, toolsFactory ToolMapperFactory) *PipelineBuilder {
	return &PipelineBuilder{models: models, tools: toolsFactory}
}

// Build resolves every catalog reference of sess. The first reference that
// cannot be resolved aborts the build with a *entity.MappingError.
func (b *PipelineBuilder) Build(ctx context.Context, sess *crewEntity.Session, input tools.InputProvider) (*engine.PipelineSpec, error) {
	if sess.Crew == nil || len(sess.Agents) == 0 {
		return nil, errno.ErrEmptyCrew
	}
	crew := sess.Crew
	toolMapper := b.tools(input)

	spec := &engine.PipelineSpec{
		Agents: make([]*engine.AgentSpec, 0, len(sess.Agents)),
		Tasks:  make([]*engine.TaskSpec, 0, len(sess.Tasks)),
		Input:  input,
	}

	for _, a := range sess.Agents {
		agentTools := make([]tool.BaseTool, 0, len(a.Tools))
		for _, key := range a.Tools {
			t, err := toolMapper.MapTool(key)
			if err != nil {
				return nil, &entity.MappingError{Kind: entity.MappingTool, Key: string(key), AgentID: a.ID, Cause: err}
			}
			agentTools = append(agentTools, t)
		}

		llm, err := b.models.MapLLM(ctx, a.LLM, a.LLMTemperature, llmEntity.RoleAgent, crew.Process)
		if err == nil && llm == nil {
			err = fmt.Errorf("no model for %q", a.LLM)
		}
		if err != nil {
			return nil, &entity.MappingError{Kind: entity.MappingAgentLLM, Key: string(a.LLM), AgentID: a.ID, Cause: err}
		}

		spec.Agents = append(spec.Agents, &engine.AgentSpec{
			ID:              a.ID,
			Name:            a.Name,
			Role:            a.Role,
			Goal:            a.Goal,
			Backstory:       a.Backstory,
			Verbose:         a.Verbose,
			AllowDelegation: a.AllowDelegation,
			Tools:           agentTools,
			LLM:             llm,
			MaxRPM:          catalog.MapRateLimit(a.MaxRPM),
			MaxIterations:   a.MaxIterations,
			Memory:          a.MemoryEnabled,
		})
	}

	for _, t := range sess.Tasks {
		spec.Tasks = append(spec.Tasks, &engine.TaskSpec{
			AgentID:        t.AgentID,
			Number:         t.Number,
			HumanInput:     t.HumanInputRequired,
			Description:    t.Description,
			ExpectedOutput: t.ExpectedOutput,
		})
	}

	manager, err := b.models.MapLLM(ctx, crew.ManagerLLM, crew.ManagerLLMTemperature, llmEntity.RoleManager, crew.Process)
	if err == nil && manager == nil && crew.Process == catalog.ProcessHierarchical {
		err = errno.ErrManagerRequired
	}
	if err != nil {
		return nil, &entity.MappingError{Kind: entity.MappingManagerLLM, Key: string(crew.ManagerLLM), Cause: err}
	}

	spec.Crew = engine.CrewSpec{
		Name:               crew.Name,
		Description:        crew.Description,
		Verbose:            crew.Verbose,
		MaxRPM:             catalog.MapRateLimit(crew.MaxRPM),
		Memory:             crew.MemoryEnabled,
		FullOutput:         crew.FullOutput,
		Process:            crew.Process,
		ManagerLLM:         manager,
		ManagerTemperature: crew.ManagerLLMTemperature,
	}

	logger.DebugX(pkg.ModuleName, "[Builder] session %s mapped: %d agents, %d tasks", sess.ID, len(spec.Agents), len(spec.Tasks))
	return spec, nil
}
