package crewfile

import (
	"fmt"
	"strings"

	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/pkg/utils/json"
)

// Extension is the suffix of saved crew files.
const Extension = ".ancr"

// FormatFilename normalizes a user supplied crew name: trimmed, spaces to
// underscores, lowercased, and anything outside [a-z0-9_] dropped.
func FormatFilename(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// document is the on-disk layout of a crew file.
type document struct {
	Agents []agentSettings `json:"agents_settings"`
	Tasks  []taskSettings  `json:"tasks_settings"`
	Crew   json.RawMessage `json:"crew_settings"`
}

type agentSettings struct {
	ID             string   `json:"agent_id"`
	Name           string   `json:"agent_name"`
	Role           string   `json:"agent_role"`
	Goal           string   `json:"agent_goal"`
	Backstory      string   `json:"agent_backstory"`
	Verbosity      string   `json:"agent_verbosity"`
	Delegation     string   `json:"agent_delegation"`
	Tools          []string `json:"agent_tools"`
	LLM            string   `json:"agent_llm"`
	LLMTemperature float64  `json:"agent_llm_temperature"`
	MaxRPM         int      `json:"agent_max_rpm"`
	MaxIter        int      `json:"agent_max_iter"`
	Memory         string   `json:"agent_memory"`
}

type taskSettings struct {
	AgentID        string `json:"agent_id"`
	Number         int    `json:"task_number"`
	HumanInput     string `json:"task_human_input"`
	Description    string `json:"task_description"`
	ExpectedOutput string `json:"task_expected_output"`
}

type crewSettings struct {
	Name                  string  `json:"crew_name"`
	Description           string  `json:"crew_description"`
	Verbosity             string  `json:"crew_verbosity"`
	MaxRPM                int     `json:"crew_max_rpm"`
	Memory                string  `json:"crew_memory"`
	FullOutput            string  `json:"crew_full_output"`
	Process               string  `json:"crew_process"`
	ManagerLLM            *string `json:"crew_manager_llm"`
	ManagerLLMTemperature float64 `json:"crew_manager_llm_temperature"`
}

func encode(sess *entity.Session) ([]byte, error) {
	doc := document{
		Agents: make([]agentSettings, 0, len(sess.Agents)),
		Tasks:  make([]taskSettings, 0, len(sess.Tasks)),
		Crew:   json.RawMessage("{}"),
	}
	for _, a := range sess.Agents {
		tools := make([]string, 0, len(a.Tools))
		for _, t := range a.Tools {
			tools = append(tools, string(t))
		}
		doc.Agents = append(doc.Agents, agentSettings{
			ID:             a.ID,
			Name:           a.Name,
			Role:           a.Role,
			Goal:           a.Goal,
			Backstory:      a.Backstory,
			Verbosity:      catalog.BooleanChoice(a.Verbose),
			Delegation:     catalog.BooleanChoice(a.AllowDelegation),
			Tools:          tools,
			LLM:            string(a.LLM),
			LLMTemperature: a.LLMTemperature,
			MaxRPM:         a.MaxRPM,
			MaxIter:        a.MaxIterations,
			Memory:         catalog.BooleanChoice(a.MemoryEnabled),
		})
	}
	for _, t := range sess.Tasks {
		doc.Tasks = append(doc.Tasks, taskSettings{
			AgentID:        t.AgentID,
			Number:         t.Number,
			HumanInput:     catalog.BooleanChoice(t.HumanInputRequired),
			Description:    t.Description,
			ExpectedOutput: t.ExpectedOutput,
		})
	}
	if c := sess.Crew; c != nil {
		cs := crewSettings{
			Name:                  c.Name,
			Description:           c.Description,
			Verbosity:             catalog.BooleanChoice(c.Verbose),
			MaxRPM:                c.MaxRPM,
			Memory:                catalog.BooleanChoice(c.MemoryEnabled),
			FullOutput:            catalog.BooleanChoice(c.FullOutput),
			Process:               c.Process.String(),
			ManagerLLMTemperature: c.ManagerLLMTemperature,
		}
		if c.ManagerLLM != "" {
			llm := string(c.ManagerLLM)
			cs.ManagerLLM = &llm
		}
		raw, err := json.Marshal(cs)
		if err != nil {
			return nil, err
		}
		doc.Crew = raw
	}
	return json.MarshalIndent(doc, "", "    ")
}

func decode(data []byte) (*entity.Session, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	sess := entity.NewSession("")
	for _, a := range doc.Agents {
		if a.ID == "" {
			return nil, fmt.Errorf("agent without agent_id")
		}
		if sess.Agent(a.ID) != nil {
			return nil, fmt.Errorf("duplicate agent_id %q", a.ID)
		}
		tools := make([]catalog.ToolKey, 0, len(a.Tools))
		for _, t := range a.Tools {
			tools = append(tools, catalog.ToolKey(t))
		}
		sess.Agents = append(sess.Agents, &entity.Agent{
			ID:              a.ID,
			Name:            a.Name,
			Role:            a.Role,
			Goal:            a.Goal,
			Backstory:       a.Backstory,
			Verbose:         catalog.MapBooleanChoice(a.Verbosity),
			AllowDelegation: catalog.MapBooleanChoice(a.Delegation),
			Tools:           tools,
			LLM:             catalog.ModelKey(a.LLM),
			LLMTemperature:  a.LLMTemperature,
			MaxRPM:          a.MaxRPM,
			MaxIterations:   a.MaxIter,
			MemoryEnabled:   catalog.MapBooleanChoice(a.Memory),
		})
	}
	for _, t := range doc.Tasks {
		if sess.Agent(t.AgentID) == nil {
			return nil, fmt.Errorf("task %d references unknown agent %q", t.Number, t.AgentID)
		}
		if t.Number < 1 || sess.Task(t.AgentID, t.Number) != nil {
			return nil, fmt.Errorf("invalid task_number %d for agent %q", t.Number, t.AgentID)
		}
		sess.Tasks = append(sess.Tasks, &entity.Task{
			AgentID:            t.AgentID,
			Number:             t.Number,
			HumanInputRequired: catalog.MapBooleanChoice(t.HumanInput),
			Description:        t.Description,
			ExpectedOutput:     t.ExpectedOutput,
		})
		if t.Number > sess.TaskCounters[t.AgentID] {
			sess.TaskCounters[t.AgentID] = t.Number
		}
	}

	if len(sess.Agents) == 0 {
		return sess, nil
	}
	// A sole agent has nobody to delegate to.
	if len(sess.Agents) == 1 {
		sess.Agents[0].AllowDelegation = false
	}
	var cs *crewSettings
	if len(doc.Crew) > 0 {
		if err := json.Unmarshal(doc.Crew, &cs); err != nil {
			return nil, fmt.Errorf("crew_settings: %w", err)
		}
	}
	if cs == nil || (cs.Name == "" && cs.Process == "" && cs.Verbosity == "") {
		return nil, fmt.Errorf("crew_settings missing")
	}
	crew := &entity.Crew{
		Name:                  cs.Name,
		Description:           cs.Description,
		Verbose:               catalog.MapBooleanChoice(cs.Verbosity),
		MaxRPM:                cs.MaxRPM,
		MemoryEnabled:         catalog.MapBooleanChoice(cs.Memory),
		FullOutput:            catalog.MapBooleanChoice(cs.FullOutput),
		Process:               catalog.MapProcess(cs.Process),
		ManagerLLMTemperature: cs.ManagerLLMTemperature,
	}
	if cs.ManagerLLM != nil {
		crew.ManagerLLM = catalog.ModelKey(*cs.ManagerLLM)
	}
	crew.Normalize()
	sess.Crew = crew
	return sess, nil
}
