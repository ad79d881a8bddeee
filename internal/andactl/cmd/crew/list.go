package crew

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/kiosk404/andalem/pkg/utils/templates"
	"github.com/spf13/cobra"
)

var listExample = templates.Examples(`
		# List the crews saved in ./saved_crews
		andactl list

		# List the crews of another directory
		andactl list --crews-dir=/srv/andalem/saved_crews`)

// ListOptions is an options struct to support the list command.
type ListOptions struct {
	factory util.Factory
	genericclioptions.IOStreams
}

// NewListOptions returns initialized ListOptions.
func NewListOptions(f util.Factory, ioStreams genericclioptions.IOStreams) *ListOptions {
	return &ListOptions{factory: f, IOStreams: ioStreams}
}

// NewCmdList returns new initialized instance of the list sub command.
func NewCmdList(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := NewListOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "list",
		DisableFlagsInUseLine: true,
		Aliases:               []string{"ls"},
		Short:                 "List the saved crews",
		Example:               listExample,
		Args:                  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Run(cmd.Context()))
		},
	}
	return cmd
}

// Run executes the list command.
func (o *ListOptions) Run(ctx context.Context) error {
	files := o.factory.CrewFiles()
	names, err := files.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(o.Out, "No saved crews in %s\n", files.Dir())
		return nil
	}

	table := uitable.New()
	table.Separator = "  "
	table.AddRow("NAME", "CREW", "PROCESS", "AGENTS", "TASKS")
	for _, name := range names {
		sess, err := files.Load(ctx, name)
		if err != nil {
			table.AddRow(name, "<unreadable>", "-", "-", "-")
			continue
		}
		crewName, process := "-", "-"
		if sess.Crew != nil {
			crewName, process = sess.Crew.Name, sess.Crew.Process.String()
		}
		table.AddRow(name, crewName, process, strconv.Itoa(len(sess.Agents)), strconv.Itoa(len(sess.Tasks)))
	}
	fmt.Fprintln(o.Out, table)
	return nil
}
