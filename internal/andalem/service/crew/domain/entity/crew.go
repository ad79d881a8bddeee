package entity

import (
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
)

// Crew holds the process-level settings shared by all agents and tasks.
type Crew struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Verbose     bool   `json:"verbose"`

	// MaxRPM caps requests per minute for the whole crew, in [0, 100]. 0 means unlimited.
	MaxRPM int `json:"max_requests_per_minute" validate:"gte=0,lte=100"`

	MemoryEnabled bool `json:"memory_enabled"`

	// FullOutput surfaces every task's output instead of only the final one.
	FullOutput bool `json:"full_output"`

	Process catalog.Process `json:"process"`

	// ManagerLLM is required for, and only meaningful with, the hierarchical process.
	ManagerLLM catalog.ModelKey `json:"manager_llm"`

	ManagerLLMTemperature float64 `json:"manager_llm_temperature" validate:"gte=0,lte=1"`
}

// NewCrew returns a crew with the default settings.
func NewCrew() *Crew {
	return &Crew{
		Verbose:               true,
		MaxRPM:                DefaultMaxRPM,
		FullOutput:            true,
		Process:               catalog.ProcessSequential,
		ManagerLLMTemperature: DefaultLLMTemperature,
	}
}

// Normalize resets the manager settings when the process does not use them.
func (c *Crew) Normalize() {
	if c.Process != catalog.ProcessHierarchical {
		c.ManagerLLM = ""
		c.ManagerLLMTemperature = DefaultLLMTemperature
	}
}
