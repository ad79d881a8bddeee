package catalog

import (
	"strings"
	"unicode"
)

// Field describes one editable field of an agent, task or crew.
type Field struct {
	// Name is the unprefixed field name, e.g. "manager_llm".
	Name string `json:"name"`
	// Label is the rendered name, e.g. "Manager LLM".
	Label string `json:"label"`
	// Description is the help text shown next to the input.
	Description string `json:"description"`
	// Required marks fields the validator checks.
	Required bool `json:"required"`
	// RequiredWhen narrows Required to a condition, e.g. "process=Hierarchical".
	RequiredWhen string `json:"required_when,omitempty"`
}

func field(name, description string) Field {
	return Field{Name: name, Label: FieldLabel(name), Description: description}
}

func required(name, description string) Field {
	f := field(name, description)
	f.Required = true
	return f
}

var agentFields = []Field{
	required("name", "The name of the agent so it can easily be differentiated from other agents"),
	required("role", "The agent's function within the crew. It determines the kinds of tasks the agent is best suited for"),
	required("goal", "The individual objective that the agent aims to achieve. It guides the agent's decision-making process"),
	required("backstory", "The context to the agent's role and goal to enrich the interaction and collaboration dynamics"),
	field("verbose", "The internal logger configuration to provide detailed execution logs"),
	field("allow_delegation", "The configuration of the agent to delegate tasks or questions to other agents"),
	field("tools", "The set of capabilities or functions that the agent can use to perform tasks"),
	required("llm", "The Large Language Model that will run the agent"),
	field("llm_temperature", "The agent Large Language Model's configuration to determine whether the output is more random and creative or more predictable"),
	field("max_requests_per_minute", "The maximum number of requests per minute the agent can perform. '0' means no limit"),
	field("max_iterations", "The maximum number of iterations the agent can perform before giving its best answer"),
	field("memory_enabled", "The configuration for storing execution memories (Entity, Long-Term and Short-Term memory)"),
}

var taskFields = []Field{
	field("human_input_required", "The configuration to indicate if the task requires human feedback at the end"),
	required("description", "A clear and concise statement of what the specific task entails"),
	required("expected_output", "A detailed description of what the task's completed output looks like"),
}

var crewFields = []Field{
	required("name", "The name of the crew"),
	required("description", "A clear and concise statement of what the crew does"),
	field("verbose", "The internal logger configuration to provide detailed execution logs"),
	field("max_requests_per_minute", "The maximum number of requests per minute the crew can perform. '0' means no limit"),
	field("memory_enabled", "The configuration for storing execution memories (Entity, Long-Term and Short-Term memory)"),
	field("full_output", "The configuration to set whether the crew should return the full output of all tasks or just the final output"),
	field("process", "The process flow (Hierarchical or Sequential) the crew follows"),
	{
		Name:         "manager_llm",
		Label:        FieldLabel("manager_llm"),
		Description:  "The Large Language Model used by the manager agent in a hierarchical process (Only required when using a hierarchical process)",
		Required:     true,
		RequiredWhen: "process=" + processHierarchicalName,
	},
	field("manager_llm_temperature", "The manager Large Language Model's configuration to determine whether the output is more random and creative or more predictable (Only required when using a hierarchical process)"),
}

func AgentFields() []Field { return append([]Field(nil), agentFields...) }
func TaskFields() []Field  { return append([]Field(nil), taskFields...) }
func CrewFields() []Field  { return append([]Field(nil), crewFields...) }

// FieldLabel renders a snake_case field name in title case with "Llm" spelled "LLM".
func FieldLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.ReplaceAll(strings.Join(words, " "), "Llm", "LLM")
}
