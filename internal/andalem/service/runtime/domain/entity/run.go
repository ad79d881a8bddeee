package entity

import (
	"fmt"
	"time"
)

// RunStatus represents the lifecycle state of a Run.
//
// State machine: Idle → Building → Running → Succeeded | Failed
// Building may also go straight to Failed.
type RunStatus string

const (
	RunStatusIdle      RunStatus = "idle"
	RunStatusBuilding  RunStatus = "building"
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// IsTerminal returns true if the run has reached a terminal state.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusSucceeded || s == RunStatusFailed
}

// Run is one execution of a session's crew. Runs live in memory only.
type Run struct {
	// ID is the unique run identifier.
	ID string `json:"id"`

	// SessionID is the session whose configuration was run.
	SessionID string `json:"session_id"`

	// CrewName is the crew name at the time of the run.
	CrewName string `json:"crew_name"`

	Status RunStatus `json:"status"`

	// Outputs holds the rendered result blocks of a successful run.
	Outputs []OutputBlock `json:"outputs"`

	// Error holds the user facing failure of a failed run.
	Error *RunError `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewRun returns an idle run.
func NewRun(id, sessionID, crewName string) *Run {
	return &Run{
		ID:        id,
		SessionID: sessionID,
		CrewName:  crewName,
		Status:    RunStatusIdle,
		Outputs:   []OutputBlock{},
		CreatedAt: time.Now(),
	}
}

// RunError is what the user sees of a failed run. Details never carry raw
// backend text; that goes to the error log.
type RunError struct {
	Category Category `json:"category,omitempty"`
	Message  string   `json:"message"`
	Details  []string `json:"details,omitempty"`
}

func (e *RunError) Error() string {
	if e.Category == CategoryUnknown {
		return e.Message
	}
	return fmt.Sprintf("[%s] %s", e.Category, e.Message)
}
