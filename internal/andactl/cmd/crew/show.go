package crew

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/kiosk404/andalem/pkg/utils/templates"
	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"
)

var showExample = templates.Examples(`
		# Show the agents, tasks and settings of a saved crew
		andactl show research_crew`)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	agentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	taskStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// ShowOptions is an options struct to support the show command.
type ShowOptions struct {
	Name  string
	Width int

	factory util.Factory
	genericclioptions.IOStreams
}

// NewShowOptions returns initialized ShowOptions.
func NewShowOptions(f util.Factory, ioStreams genericclioptions.IOStreams) *ShowOptions {
	return &ShowOptions{factory: f, IOStreams: ioStreams}
}

// NewCmdShow returns new initialized instance of the show sub command.
func NewCmdShow(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := NewShowOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "show NAME",
		DisableFlagsInUseLine: true,
		Aliases:               []string{"get"},
		Short:                 "Show a saved crew",
		Example:               showExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Complete(cmd, args))
			util.CheckErr(o.Run(cmd.Context()))
		},
	}
	return cmd
}

// Complete completes all the required options.
func (o *ShowOptions) Complete(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return util.UsageErrorf(cmd.CommandPath(), "exactly one crew name is required")
	}
	o.Name = args[0]
	if o.Width == 0 {
		o.Width = util.TermWidth()
	}
	return nil
}

// Run executes the show command.
func (o *ShowOptions) Run(ctx context.Context) error {
	sess, err := o.factory.CrewFiles().Load(ctx, o.Name)
	if err != nil {
		return err
	}
	fmt.Fprint(o.Out, renderCrew(sess, o.Width))
	return nil
}

func renderCrew(sess *entity.Session, width int) string {
	wrap := uint(width - 4)
	if width < 24 {
		wrap = 20
	}
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(label+":"), value)
	}

	if c := sess.Crew; c != nil {
		fmt.Fprintln(&b, titleStyle.Render(orDash(c.Name)))
		if c.Description != "" {
			fmt.Fprintf(&b, "  %s\n", indent(wordwrap.WrapString(c.Description, wrap), "  "))
		}
		line("Process", c.Process.String())
		if c.Process == catalog.ProcessHierarchical {
			line("Manager LLM", orDash(string(c.ManagerLLM)))
		}
		line("Verbose", catalog.BooleanChoice(c.Verbose))
		line("Memory", catalog.BooleanChoice(c.MemoryEnabled))
		line("Full output", catalog.BooleanChoice(c.FullOutput))
		line("Max RPM", rpm(c.MaxRPM))
		b.WriteString("\n")
	}

	for _, a := range sess.Agents {
		fmt.Fprintf(&b, "%s %s\n", agentStyle.Render("Agent "+strings.ToUpper(a.ID)), orDash(a.Name))
		line("Role", orDash(a.Role))
		line("Goal", orDash(a.Goal))
		line("Backstory", indent(wordwrap.WrapString(orDash(a.Backstory), wrap), "    "))
		line("LLM", fmt.Sprintf("%s (temperature %.1f)", a.LLM, a.LLMTemperature))
		tools := make([]string, 0, len(a.Tools))
		for _, t := range a.Tools {
			tools = append(tools, string(t))
		}
		line("Tools", orDash(strings.Join(tools, ", ")))
		line("Delegation", catalog.BooleanChoice(a.AllowDelegation))
		line("Max iterations", fmt.Sprintf("%d", a.MaxIterations))
		line("Max RPM", rpm(a.MaxRPM))

		for _, t := range sess.AgentTasks(a.ID) {
			fmt.Fprintf(&b, "  %s\n", taskStyle.Render(fmt.Sprintf("Task %d", t.Number)))
			fmt.Fprintf(&b, "    %s\n", indent(wordwrap.WrapString(orDash(t.Description), wrap), "    "))
			fmt.Fprintf(&b, "    %s %s\n", labelStyle.Render("Expected:"), orDash(t.ExpectedOutput))
			if t.HumanInputRequired {
				fmt.Fprintf(&b, "    %s\n", labelStyle.Render("Asks for human input"))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func rpm(n int) string {
	if catalog.MapRateLimit(n) == nil {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
