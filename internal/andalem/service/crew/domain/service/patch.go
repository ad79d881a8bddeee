package service

import (
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
)

// AgentPatch carries a partial agent update. Nil fields are left unchanged.
type AgentPatch struct {
	Name            *string           `json:"name,omitempty"`
	Role            *string           `json:"role,omitempty"`
	Goal            *string           `json:"goal,omitempty"`
	Backstory       *string           `json:"backstory,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty"`
	AllowDelegation *bool             `json:"allow_delegation,omitempty"`
	Tools           []catalog.ToolKey `json:"tools,omitempty"`
	LLM             *catalog.ModelKey `json:"llm,omitempty"`
	LLMTemperature  *float64          `json:"llm_temperature,omitempty"`
	MaxRPM          *int              `json:"max_requests_per_minute,omitempty"`
	MaxIterations   *int              `json:"max_iterations,omitempty"`
	MemoryEnabled   *bool             `json:"memory_enabled,omitempty"`
}

// TaskPatch carries a partial task update.
type TaskPatch struct {
	HumanInputRequired *bool   `json:"human_input_required,omitempty"`
	Description        *string `json:"description,omitempty"`
	ExpectedOutput     *string `json:"expected_output,omitempty"`
}

// CrewPatch carries a partial crew update.
type CrewPatch struct {
	Name                  *string           `json:"name,omitempty"`
	Description           *string           `json:"description,omitempty"`
	Verbose               *bool             `json:"verbose,omitempty"`
	MaxRPM                *int              `json:"max_requests_per_minute,omitempty"`
	MemoryEnabled         *bool             `json:"memory_enabled,omitempty"`
	FullOutput            *bool             `json:"full_output,omitempty"`
	Process               *catalog.Process  `json:"process,omitempty"`
	ManagerLLM            *catalog.ModelKey `json:"manager_llm,omitempty"`
	ManagerLLMTemperature *float64          `json:"manager_llm_temperature,omitempty"`
}
