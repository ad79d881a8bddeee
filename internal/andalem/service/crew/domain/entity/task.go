package entity

// Task is a unit of work bound to exactly one agent.
type Task struct {
	// AgentID references the owning agent.
	AgentID string `json:"agent_id"`

	// Number is 1-based and unique per agent; numbers are never reused.
	Number int `json:"task_number"`

	// HumanInputRequired asks the user for feedback once the task has an answer.
	HumanInputRequired bool `json:"human_input_required"`

	// Description states what the task entails.
	Description string `json:"description"`

	// ExpectedOutput describes what the completed output looks like.
	ExpectedOutput string `json:"expected_output"`
}

// NewTask returns an empty task for the given agent.
func NewTask(agentID string, number int) *Task {
	return &Task{AgentID: agentID, Number: number}
}
