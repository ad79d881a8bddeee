// Package engine executes a built crew: agents backed by eino chat models work
// through their tasks in order, or under a manager model for the hierarchical
// process.
package engine

import (
	"context"
	"io"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/tools"
)

// Engine turns a pipeline spec into a runnable pipeline.
type Engine interface {
	Build(ctx context.Context, spec *PipelineSpec) (Pipeline, error)
}

// Pipeline runs a built crew once. Run blocks until every task is done.
type Pipeline interface {
	Run(ctx context.Context, streams Streams) (*AggregateOutput, error)
}

// Streams receive the verbose execution trace.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// DiscardStreams drops the trace.
func DiscardStreams() Streams {
	return Streams{Stdout: io.Discard, Stderr: io.Discard}
}

// TaskOutput is the result of one task.
type TaskOutput struct {
	// AgentID and TaskNumber identify the task; AgentID is its owner.
	AgentID    string `json:"agent_id"`
	TaskNumber int    `json:"task_number"`

	// WorkerID and Agent name the agent that produced the output. They differ
	// from the owner when a hierarchical manager assigned the task elsewhere.
	WorkerID string `json:"worker_id"`
	Agent    string `json:"agent"`

	Description string `json:"description"`
	RawOutput   string `json:"raw_output"`
}

// AggregateOutput is the result of a whole run. Final is the last task's output.
type AggregateOutput struct {
	Final string       `json:"final"`
	Tasks []TaskOutput `json:"tasks"`
}

// AgentSpec is an agent with every catalog reference resolved.
type AgentSpec struct {
	ID        string
	Name      string
	Role      string
	Goal      string
	Backstory string

	Verbose         bool
	AllowDelegation bool

	Tools []tool.BaseTool
	LLM   model.BaseChatModel

	// MaxRPM is nil when unlimited.
	MaxRPM        *int
	MaxIterations int
	Memory        bool
}

// TaskSpec is a task bound to its agent by AgentID.
type TaskSpec struct {
	AgentID        string
	Number         int
	HumanInput     bool
	Description    string
	ExpectedOutput string
}

// CrewSpec carries the crew level settings.
type CrewSpec struct {
	Name        string
	Description string
	Verbose     bool
	// MaxRPM is nil when unlimited.
	MaxRPM     *int
	Memory     bool
	FullOutput bool
	Process    catalog.Process

	// ManagerLLM is nil unless Process is hierarchical.
	ManagerLLM         model.BaseChatModel
	ManagerTemperature float64
}

// PipelineSpec is a fully mapped crew ready to be built.
type PipelineSpec struct {
	Agents []*AgentSpec
	Tasks  []*TaskSpec
	Crew   CrewSpec

	// Input answers human input requests. Nil skips human feedback.
	Input tools.InputProvider
}

// Agent returns the agent with the given id, or nil.
func (s *PipelineSpec) Agent(id string) *AgentSpec {
	for _, a := range s.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}
