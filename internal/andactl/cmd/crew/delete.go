package crew

import (
	"context"
	"fmt"

	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/kiosk404/andalem/pkg/utils/templates"
	"github.com/spf13/cobra"
)

var deleteExample = templates.Examples(`
		# Delete a saved crew
		andactl delete research_crew`)

// DeleteOptions is an options struct to support the delete command.
type DeleteOptions struct {
	Names []string

	factory util.Factory
	genericclioptions.IOStreams
}

// NewDeleteOptions returns initialized DeleteOptions.
func NewDeleteOptions(f util.Factory, ioStreams genericclioptions.IOStreams) *DeleteOptions {
	return &DeleteOptions{factory: f, IOStreams: ioStreams}
}

// NewCmdDelete returns new initialized instance of the delete sub command.
func NewCmdDelete(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := NewDeleteOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "delete NAME [NAME...]",
		DisableFlagsInUseLine: true,
		Aliases:               []string{"rm"},
		Short:                 "Delete saved crews",
		Example:               deleteExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Complete(cmd, args))
			util.CheckErr(o.Run(cmd.Context()))
		},
	}
	return cmd
}

// Complete completes all the required options.
func (o *DeleteOptions) Complete(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return util.UsageErrorf(cmd.CommandPath(), "at least one crew name is required")
	}
	o.Names = args
	return nil
}

// Run executes the delete command.
func (o *DeleteOptions) Run(ctx context.Context) error {
	files := o.factory.CrewFiles()
	for _, name := range o.Names {
		if err := files.Remove(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(o.Out, "crew %q deleted\n", name)
	}
	return nil
}
