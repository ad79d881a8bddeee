package engine

import (
	"fmt"
	"strings"

	"github.com/kiosk404/andalem/internal/andalem/service/runtime/engine/memory"
)

func systemPrompt(a *AgentSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s\n", a.Role, a.Backstory)
	fmt.Fprintf(&b, "Your personal goal is: %s", a.Goal)
	if a.Name != "" {
		fmt.Fprintf(&b, "\nYour name is %s.", a.Name)
	}
	return b.String()
}

func taskPrompt(t *TaskSpec, context string, memories []*memory.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Task: %s\n\n", t.Description)
	fmt.Fprintf(&b, "This is the expect criteria for your final answer: %s\n", t.ExpectedOutput)
	b.WriteString("You MUST return the actual complete content as the final answer, not a summary.")
	if strings.TrimSpace(context) != "" {
		fmt.Fprintf(&b, "\n\nThis is the context you're working with:\n%s", context)
	}
	if len(memories) > 0 {
		b.WriteString("\n\nThis is what you remember from earlier tasks:")
		for _, m := range memories {
			fmt.Fprintf(&b, "\n- %s: %s", m.Task, clip(m.Output))
		}
	}
	b.WriteString("\n\nBegin! This is VERY important to you, use the tools available and give your best Final Answer, your job depends on it!")
	return b.String()
}

func feedbackPrompt(feedback string) string {
	return fmt.Sprintf("Here is human feedback on your answer:\n%s\n\n"+
		"Revise your final answer taking the feedback into account. Return the complete revised answer.", feedback)
}

func humanInputQuestion(t *TaskSpec, answer string) string {
	return fmt.Sprintf("## Final Result of task %q:\n%s\n\n"+
		"Provide feedback on the Final Result and the Agent's actions, or leave it empty to accept it.", t.Description, answer)
}

func delegatePrompt(task, context string) string {
	if strings.TrimSpace(context) == "" {
		return task
	}
	return fmt.Sprintf("%s\n\nThis is the context you're working with:\n%s", task, context)
}

func managerSystemPrompt(c CrewSpec) string {
	var b strings.Builder
	b.WriteString("You are the Crew Manager. You are a seasoned manager with a knack for getting the best out of your team. ")
	b.WriteString("You are known for your ability to delegate work to the right people and to ask the right questions to get the best out of your team.")
	if c.Name != "" {
		fmt.Fprintf(&b, "\nYou manage the crew %q.", c.Name)
	}
	if c.Description != "" {
		fmt.Fprintf(&b, "\nThe crew's purpose: %s", c.Description)
	}
	return b.String()
}

func assignPrompt(t *TaskSpec, coworkers []*AgentSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\nExpected output: %s\n\nCoworkers:\n", t.Description, t.ExpectedOutput)
	for _, a := range coworkers {
		fmt.Fprintf(&b, "- %s: %s\n", a.Role, a.Goal)
	}
	b.WriteString("\nWhich coworker should do this task? Reply with the coworker's role only.")
	return b.String()
}

const approved = "APPROVED"

func reviewPrompt(t *TaskSpec, worker, answer string) string {
	return fmt.Sprintf("%s completed the task %q.\nExpected output: %s\n\nTheir answer:\n%s\n\n"+
		"If the answer fully meets the expected output reply with exactly %s. "+
		"Otherwise reply with the complete corrected final answer.", worker, t.Description, t.ExpectedOutput, answer, approved)
}
