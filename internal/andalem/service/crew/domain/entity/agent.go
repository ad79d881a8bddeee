package entity

import (
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
)

const (
	DefaultLLMTemperature = 0.50
	DefaultMaxRPM         = 50
	DefaultMaxIterations  = 15
)

// Agent is a configured role-playing crew member.
type Agent struct {
	// ID is the 4-character identifier, unique within the session and immutable.
	ID string `json:"agent_id"`

	// Name differentiates the agent from the other agents.
	Name string `json:"name"`

	// Role is the agent's function within the crew.
	Role string `json:"role"`

	// Goal is the individual objective the agent aims to achieve.
	Goal string `json:"goal"`

	// Backstory gives context to the role and goal.
	Backstory string `json:"backstory"`

	// Verbose enables the agent's execution trace.
	Verbose bool `json:"verbose"`

	// AllowDelegation lets the agent hand work to coworkers.
	// Always false while the agent is the only one in the crew.
	AllowDelegation bool `json:"allow_delegation"`

	// Tools is the set of tool catalog keys the agent may call.
	Tools []catalog.ToolKey `json:"tools"`

	// LLM is the model catalog key running the agent.
	LLM catalog.ModelKey `json:"llm"`

	// LLMTemperature is the sampling temperature, in [0, 1].
	LLMTemperature float64 `json:"llm_temperature" validate:"gte=0,lte=1"`

	// MaxRPM caps requests per minute, in [0, 100]. 0 means unlimited.
	MaxRPM int `json:"max_requests_per_minute" validate:"gte=0,lte=100"`

	// MaxIterations caps reasoning iterations before the agent answers, in [1, 100].
	MaxIterations int `json:"max_iterations" validate:"gte=1,lte=100"`

	// MemoryEnabled stores and recalls execution memories.
	MemoryEnabled bool `json:"memory_enabled"`
}

// NewAgent returns an agent with the default settings.
func NewAgent(id string) *Agent {
	return &Agent{
		ID:             id,
		Verbose:        true,
		Tools:          []catalog.ToolKey{},
		LLM:            catalog.DefaultAgentModel,
		LLMTemperature: DefaultLLMTemperature,
		MaxRPM:         DefaultMaxRPM,
		MaxIterations:  DefaultMaxIterations,
	}
}

// HasTool reports whether the agent selected key.
func (a *Agent) HasTool(key catalog.ToolKey) bool {
	for _, t := range a.Tools {
		if t == key {
			return true
		}
	}
	return false
}
