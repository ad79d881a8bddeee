package service

import (
	"fmt"
	"strings"

	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
)

// AgentIssue lists the required fields an agent is missing.
type AgentIssue struct {
	AgentID string   `json:"agent_id"`
	Missing []string `json:"missing"`
}

// TaskIssue lists the required fields a task is missing.
type TaskIssue struct {
	AgentID    string   `json:"agent_id"`
	TaskNumber int      `json:"task_number"`
	Missing    []string `json:"missing"`
}

// Report is the outcome of Validate.
type Report struct {
	Agents []AgentIssue `json:"agents"`
	Tasks  []TaskIssue  `json:"tasks"`
	Crew   []string     `json:"crew"`
}

// Valid reports whether nothing is missing.
func (r *Report) Valid() bool {
	return len(r.Agents) == 0 && len(r.Tasks) == 0 && len(r.Crew) == 0
}

// Messages renders one line per offending record.
func (r *Report) Messages() []string {
	var out []string
	for _, a := range r.Agents {
		out = append(out, fmt.Sprintf("Agent %s is missing the following fields: %s",
			strings.ToUpper(a.AgentID), strings.Join(a.Missing, ", ")))
	}
	for _, t := range r.Tasks {
		out = append(out, fmt.Sprintf("Agent %s Task %d is missing the following fields: %s",
			strings.ToUpper(t.AgentID), t.TaskNumber, strings.Join(t.Missing, ", ")))
	}
	if len(r.Crew) > 0 {
		out = append(out, fmt.Sprintf("Crew is missing the following fields: %s", strings.Join(r.Crew, ", ")))
	}
	return out
}

type requirement struct {
	name  string
	value string
}

func missing(reqs ...requirement) []string {
	var out []string
	for _, r := range reqs {
		if r.value == "" {
			out = append(out, catalog.FieldLabel(r.name))
		}
	}
	return out
}

// Validate inspects sess and reports every missing required field. It has no side effects.
func Validate(sess *entity.Session) *Report {
	report := &Report{
		Agents: []AgentIssue{},
		Tasks:  []TaskIssue{},
		Crew:   []string{},
	}

	for _, a := range sess.Agents {
		if m := missing(
			requirement{"name", a.Name},
			requirement{"role", a.Role},
			requirement{"goal", a.Goal},
			requirement{"backstory", a.Backstory},
		); len(m) > 0 {
			report.Agents = append(report.Agents, AgentIssue{AgentID: a.ID, Missing: m})
		}
	}

	for _, t := range sess.Tasks {
		if m := missing(
			requirement{"description", t.Description},
			requirement{"expected_output", t.ExpectedOutput},
		); len(m) > 0 {
			report.Tasks = append(report.Tasks, TaskIssue{AgentID: t.AgentID, TaskNumber: t.Number, Missing: m})
		}
	}

	crew := sess.Crew
	if crew == nil {
		crew = &entity.Crew{}
	}
	reqs := []requirement{
		{"name", crew.Name},
		{"description", crew.Description},
	}
	if crew.Process == catalog.ProcessHierarchical {
		reqs = append(reqs, requirement{"manager_llm", string(crew.ManagerLLM)})
	}
	if m := missing(reqs...); len(m) > 0 {
		report.Crew = m
	}
	return report
}
