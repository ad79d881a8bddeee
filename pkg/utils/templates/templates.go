// Package templates formats the help texts of cobra commands.
package templates

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const indentation = `  `

// LongDesc normalizes a command's long description: the common indentation is
// removed and surrounding blank lines are trimmed.
func LongDesc(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.TrimSpace(heredoc.Doc(s))
}

// Examples normalizes a command's examples and indents every line.
func Examples(s string) string {
	if len(s) == 0 {
		return s
	}
	lines := strings.Split(strings.TrimSpace(heredoc.Doc(s)), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indentation + l
		}
	}
	return strings.Join(lines, "\n")
}

// CommandGroup is a titled set of sub commands.
type CommandGroup struct {
	Message  string
	Commands []*cobra.Command
}

// CommandGroups lists the sub commands of a root command by group.
type CommandGroups []CommandGroup

// Add registers every grouped command on c.
func (g CommandGroups) Add(c *cobra.Command) {
	for _, group := range g {
		c.AddCommand(group.Commands...)
	}
}

// Has reports whether c belongs to one of the groups.
func (g CommandGroups) Has(c *cobra.Command) bool {
	for _, group := range g {
		for _, command := range group.Commands {
			if command == c {
				return true
			}
		}
	}
	return false
}

// String renders the groups as a help section.
func (g CommandGroups) String() string {
	var b strings.Builder
	for _, group := range g {
		width := 0
		for _, c := range group.Commands {
			if l := len(c.Name()); l > width {
				width = l
			}
		}
		fmt.Fprintf(&b, "%s\n", group.Message)
		for _, c := range group.Commands {
			if c.Hidden {
				continue
			}
			fmt.Fprintf(&b, "%s%-*s  %s\n", indentation, width, c.Name(), c.Short)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ActsAsRootCommand replaces the usage of cmd so that its sub commands are
// listed by group.
func ActsAsRootCommand(cmd *cobra.Command, groups ...CommandGroup) {
	all := CommandGroups(groups)
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		out := c.OutOrStderr()
		if c != cmd {
			fmt.Fprint(out, commandUsage(c))
			return nil
		}
		fmt.Fprint(out, all.String())
		if c.HasAvailableLocalFlags() || c.HasAvailablePersistentFlags() {
			fmt.Fprintf(out, "Flags:\n%s\n", c.Flags().FlagUsages())
		}
		fmt.Fprintf(out, "Usage:\n%s%s [command] [flags]\n\n", indentation, c.CommandPath())
		fmt.Fprintf(out, "Use \"%s <command> --help\" for more information about a given command.\n", c.CommandPath())
		return nil
	})
}

// commandUsage renders the usage of a sub command. cobra's own UsageString
// would call back into the inherited usage func.
func commandUsage(c *cobra.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage:\n%s%s\n", indentation, c.UseLine())
	if len(c.Aliases) > 0 {
		fmt.Fprintf(&b, "\nAliases:\n%s%s\n", indentation, strings.Join(append([]string{c.Name()}, c.Aliases...), ", "))
	}
	if c.HasExample() {
		fmt.Fprintf(&b, "\nExamples:\n%s\n", c.Example)
	}
	if c.HasAvailableLocalFlags() {
		fmt.Fprintf(&b, "\nFlags:\n%s", c.LocalFlags().FlagUsages())
	}
	if c.HasAvailableInheritedFlags() {
		fmt.Fprintf(&b, "\nGlobal Flags:\n%s", c.InheritedFlags().FlagUsages())
	}
	return b.String()
}
