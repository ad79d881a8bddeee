package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
	"github.com/kiosk404/andalem/pkg/logger"
)

// ConfigStore applies user edits to a session and keeps its invariants.
// It does not lock: callers serialize access to one session.
type ConfigStore struct {
	ids      *IDGenerator
	validate *validator.Validate
}

// NewConfigStore creates a ConfigStore drawing ids from ids.
func NewConfigStore(ids *IDGenerator) *ConfigStore {
	return &ConfigStore{
		ids:      ids,
		validate: validator.New(),
	}
}

// AddAgent creates an agent with default settings and its first task.
// The crew is created along with the first agent.
func (s *ConfigStore) AddAgent(sess *entity.Session) (*entity.Agent, error) {
	agent := entity.NewAgent(s.ids.AgentID(sess.AgentIDs()))
	if len(sess.Agents) == 0 {
		sess.Crew = entity.NewCrew()
	}
	sess.Agents = append(sess.Agents, agent)
	if _, err := s.AddTask(sess, agent.ID); err != nil {
		return nil, err
	}
	enforceDelegation(sess)

	logger.InfoX(pkg.ModuleName, "[ConfigStore] session %s: agent %s added", sess.ID, agent.ID)
	return agent, nil
}

// AddTask appends a new task to agentID.
func (s *ConfigStore) AddTask(sess *entity.Session, agentID string) (*entity.Task, error) {
	if sess.Agent(agentID) == nil {
		return nil, fmt.Errorf("%w: %s", errno.ErrAgentNotFound, agentID)
	}
	task := entity.NewTask(agentID, NextTaskNumber(sess, agentID))
	sess.Tasks = append(sess.Tasks, task)
	return task, nil
}

// RemoveAgent removes agentID and all its tasks. Removing the last agent
// clears the crew and the current crew name.
func (s *ConfigStore) RemoveAgent(sess *entity.Session, agentID string) error {
	idx := -1
	for i, a := range sess.Agents {
		if a.ID == agentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", errno.ErrAgentNotFound, agentID)
	}

	sess.Agents = append(sess.Agents[:idx], sess.Agents[idx+1:]...)
	tasks := sess.Tasks[:0]
	for _, t := range sess.Tasks {
		if t.AgentID != agentID {
			tasks = append(tasks, t)
		}
	}
	sess.Tasks = tasks
	delete(sess.TaskCounters, agentID)

	if len(sess.Agents) == 0 {
		s.RemoveCrew(sess)
		return nil
	}
	enforceDelegation(sess)

	logger.InfoX(pkg.ModuleName, "[ConfigStore] session %s: agent %s removed", sess.ID, agentID)
	return nil
}

// RemoveTask removes one task. Task number 1 is kept so every agent has a task.
func (s *ConfigStore) RemoveTask(sess *entity.Session, agentID string, number int) error {
	if number == 1 {
		return errno.ErrFirstTaskLocked
	}
	for i, t := range sess.Tasks {
		if t.AgentID == agentID && t.Number == number {
			sess.Tasks = append(sess.Tasks[:i], sess.Tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: agent %s task %d", errno.ErrTaskNotFound, agentID, number)
}

// RemoveCrew clears the whole configuration.
func (s *ConfigStore) RemoveCrew(sess *entity.Session) {
	sess.Agents = []*entity.Agent{}
	sess.Tasks = []*entity.Task{}
	sess.Crew = nil
	sess.TaskCounters = map[string]int{}
	sess.CurrentCrew = ""
	logger.InfoX(pkg.ModuleName, "[ConfigStore] session %s: crew cleared", sess.ID)
}

// UpdateAgent applies patch to agentID. Nothing changes when the result is invalid.
func (s *ConfigStore) UpdateAgent(sess *entity.Session, agentID string, patch AgentPatch) (*entity.Agent, error) {
	agent := sess.Agent(agentID)
	if agent == nil {
		return nil, fmt.Errorf("%w: %s", errno.ErrAgentNotFound, agentID)
	}

	next := *agent
	next.Tools = append([]catalog.ToolKey{}, agent.Tools...)
	setString(&next.Name, patch.Name)
	setString(&next.Role, patch.Role)
	setString(&next.Goal, patch.Goal)
	setString(&next.Backstory, patch.Backstory)
	setBool(&next.Verbose, patch.Verbose)
	setBool(&next.AllowDelegation, patch.AllowDelegation)
	setBool(&next.MemoryEnabled, patch.MemoryEnabled)
	if patch.Tools != nil {
		tools, err := dedupeTools(patch.Tools)
		if err != nil {
			return nil, err
		}
		next.Tools = tools
	}
	if patch.LLM != nil {
		if !catalog.IsModel(string(*patch.LLM)) {
			return nil, fmt.Errorf("%w: %q", errno.ErrUnknownModel, *patch.LLM)
		}
		next.LLM = *patch.LLM
	}
	if patch.LLMTemperature != nil {
		next.LLMTemperature = *patch.LLMTemperature
	}
	if patch.MaxRPM != nil {
		next.MaxRPM = *patch.MaxRPM
	}
	if patch.MaxIterations != nil {
		next.MaxIterations = *patch.MaxIterations
	}
	if err := s.validate.Struct(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidSettings, err)
	}

	*agent = next
	enforceDelegation(sess)
	return agent, nil
}

// UpdateTask applies patch to one task.
func (s *ConfigStore) UpdateTask(sess *entity.Session, agentID string, number int, patch TaskPatch) (*entity.Task, error) {
	task := sess.Task(agentID, number)
	if task == nil {
		return nil, fmt.Errorf("%w: agent %s task %d", errno.ErrTaskNotFound, agentID, number)
	}
	setBool(&task.HumanInputRequired, patch.HumanInputRequired)
	setString(&task.Description, patch.Description)
	setString(&task.ExpectedOutput, patch.ExpectedOutput)
	return task, nil
}

// UpdateCrew applies patch to the crew. Switching to the sequential process
// clears the manager model and resets its temperature.
func (s *ConfigStore) UpdateCrew(sess *entity.Session, patch CrewPatch) (*entity.Crew, error) {
	if sess.Crew == nil {
		return nil, errno.ErrCrewNotFound
	}

	next := *sess.Crew
	setString(&next.Name, patch.Name)
	setString(&next.Description, patch.Description)
	setBool(&next.Verbose, patch.Verbose)
	setBool(&next.MemoryEnabled, patch.MemoryEnabled)
	setBool(&next.FullOutput, patch.FullOutput)
	if patch.MaxRPM != nil {
		next.MaxRPM = *patch.MaxRPM
	}
	if patch.Process != nil {
		next.Process = *patch.Process
	}
	if patch.ManagerLLM != nil {
		if *patch.ManagerLLM != "" && !catalog.IsModel(string(*patch.ManagerLLM)) {
			return nil, fmt.Errorf("%w: %q", errno.ErrUnknownModel, *patch.ManagerLLM)
		}
		next.ManagerLLM = *patch.ManagerLLM
	}
	if patch.ManagerLLMTemperature != nil {
		next.ManagerLLMTemperature = *patch.ManagerLLMTemperature
	}
	if err := s.validate.Struct(&next); err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidSettings, err)
	}
	next.Normalize()

	*sess.Crew = next
	return sess.Crew, nil
}

// enforceDelegation forces delegation off while a single agent exists.
func enforceDelegation(sess *entity.Session) {
	if len(sess.Agents) == 1 {
		sess.Agents[0].AllowDelegation = false
	}
}

func dedupeTools(keys []catalog.ToolKey) ([]catalog.ToolKey, error) {
	seen := make(map[catalog.ToolKey]struct{}, len(keys))
	out := make([]catalog.ToolKey, 0, len(keys))
	for _, k := range keys {
		if !catalog.IsTool(string(k)) {
			return nil, fmt.Errorf("%w: %q", errno.ErrUnknownTool, k)
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
