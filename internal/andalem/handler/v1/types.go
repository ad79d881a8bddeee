package v1

import (
	"time"

	crewEntity "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	crewService "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	runtimeEntity "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
)

// SessionSummary is the list view of a session.
type SessionSummary struct {
	ID          string `json:"id"`
	CurrentCrew string `json:"current_crew"`
	CrewName    string `json:"crew_name"`
	AgentCount  int    `json:"agent_count"`
	TaskCount   int    `json:"task_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func newSessionSummary(s *crewEntity.Session) SessionSummary {
	out := SessionSummary{
		ID:          s.ID,
		CurrentCrew: s.CurrentCrew,
		AgentCount:  len(s.Agents),
		TaskCount:   len(s.Tasks),
		CreatedAt:   FormatTime(s.CreatedAt),
		UpdatedAt:   FormatTime(s.UpdatedAt),
	}
	if s.Crew != nil {
		out.CrewName = s.Crew.Name
	}
	return out
}

// AgentResponse is an agent along with its tasks.
type AgentResponse struct {
	*crewEntity.Agent
	Tasks []*crewEntity.Task `json:"tasks"`
}

// SaveCrewRequest is the body of POST /v1/sessions/:id/save.
type SaveCrewRequest struct {
	Name      string `json:"name"`
	Overwrite bool   `json:"overwrite"`
}

// LoadCrewRequest is the body of POST /v1/sessions/:id/load.
type LoadCrewRequest struct {
	Name string `json:"name" binding:"required"`
}

// RunRequest is the optional body of POST /v1/sessions/:id/runs.
type RunRequest struct {
	// Interactive routes human input questions through the questions endpoints.
	// Without it, human input tasks and the User Input tool are skipped.
	Interactive bool `json:"interactive"`
}

// RunResponse is the JSON view of a run.
type RunResponse struct {
	*runtimeEntity.Run
	// Messages holds the validation dialog lines of a rejected run.
	Messages []string `json:"messages,omitempty"`
}

// AnswerRequest is the body of POST /v1/sessions/:id/questions/:question.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// ValidateResponse is the body of GET /v1/sessions/:id/validate.
type ValidateResponse struct {
	Valid    bool        `json:"valid"`
	Report   *crewService.Report `json:"report"`
	Messages []string    `json:"messages"`
}

// FormatTime formats a time.Time to ISO 8601 string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
