package entity

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
)

// Session is the configuration store of one editing session: the agents,
// their tasks and the crew, plus the name of the crew file last saved or loaded.
//
// Invariants kept by the ConfigStore:
//   - every task references an existing agent
//   - Crew is non-nil iff at least one agent exists
//   - a sole agent never allows delegation
type Session struct {
	ID string `json:"id"`

	// CurrentCrew is the normalized name of the crew file in use, empty when none.
	CurrentCrew string `json:"current_crew"`

	Agents []*Agent `json:"agents"`
	Tasks  []*Task  `json:"tasks"`
	Crew   *Crew    `json:"crew,omitempty"`

	// TaskCounters holds the last task number handed out per agent.
	TaskCounters map[string]int `json:"task_counters"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns an empty session.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Agents:       []*Agent{},
		Tasks:        []*Task{},
		TaskCounters: map[string]int{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Agent returns the agent with the given id, or nil.
func (s *Session) Agent(id string) *Agent {
	for _, a := range s.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Task returns the task of agentID with the given number, or nil.
func (s *Session) Task(agentID string, number int) *Task {
	for _, t := range s.Tasks {
		if t.AgentID == agentID && t.Number == number {
			return t
		}
	}
	return nil
}

// AgentTasks returns the tasks of agentID in creation order.
func (s *Session) AgentTasks(agentID string) []*Task {
	var out []*Task
	for _, t := range s.Tasks {
		if t.AgentID == agentID {
			out = append(out, t)
		}
	}
	return out
}

// AgentIDs returns the ids of all live agents.
func (s *Session) AgentIDs() []string {
	ids := make([]string, 0, len(s.Agents))
	for _, a := range s.Agents {
		ids = append(ids, a.ID)
	}
	return ids
}

// Empty reports whether the session holds no configuration.
func (s *Session) Empty() bool {
	return len(s.Agents) == 0
}

// Touch updates the modification time.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() (*Session, error) {
	out := &Session{}
	if err := copier.CopyWithOption(out, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	out.CreatedAt, out.UpdatedAt = s.CreatedAt, s.UpdatedAt
	out.EnsureCollections()
	return out, nil
}

// EnsureCollections replaces nil collections with empty ones.
func (s *Session) EnsureCollections() {
	if s.Agents == nil {
		s.Agents = []*Agent{}
	}
	if s.Tasks == nil {
		s.Tasks = []*Task{}
	}
	if s.TaskCounters == nil {
		s.TaskCounters = map[string]int{}
	}
	for _, a := range s.Agents {
		if a.Tools == nil {
			a.Tools = []catalog.ToolKey{}
		}
	}
}
