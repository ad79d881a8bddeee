package entity

// OutputKind tells what an output block holds.
type OutputKind string

const (
	OutputTaskDescription OutputKind = "task_description"
	OutputTaskResult      OutputKind = "task_output"
	OutputFinal           OutputKind = "final_output"
)

// OutputBlock is one rendered piece of a run result.
type OutputBlock struct {
	Kind OutputKind `json:"kind"`

	// AgentID and TaskNumber identify the task of task blocks.
	AgentID    string `json:"agent_id,omitempty"`
	TaskNumber int    `json:"task_number,omitempty"`

	// Raw is the text as produced, ANSI sequences included.
	Raw string `json:"raw"`
	// HTML is Raw converted for display.
	HTML string `json:"html"`
}
