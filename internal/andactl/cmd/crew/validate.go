package crew

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	crewService "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/crewfile"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/kiosk404/andalem/pkg/utils/templates"
	"github.com/spf13/cobra"
)

var (
	validateLong = templates.LongDesc(`
		Check that a saved crew has every required field filled in.

		Each incomplete agent, task or crew is reported on its own line. With
		--watch the crew file is checked again every time it is written.`)

	validateExample = templates.Examples(`
		# Validate a saved crew once
		andactl validate research_crew

		# Validate again on every save of the crew file
		andactl validate research_crew --watch`)
)

// ValidateOptions is an options struct to support the validate command.
type ValidateOptions struct {
	Name  string
	Watch bool

	factory util.Factory
	genericclioptions.IOStreams
}

// NewValidateOptions returns initialized ValidateOptions.
func NewValidateOptions(f util.Factory, ioStreams genericclioptions.IOStreams) *ValidateOptions {
	return &ValidateOptions{factory: f, IOStreams: ioStreams}
}

// NewCmdValidate returns new initialized instance of the validate sub command.
func NewCmdValidate(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := NewValidateOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "validate NAME [--watch]",
		DisableFlagsInUseLine: true,
		Aliases:               []string{"check"},
		Short:                 "Validate a saved crew",
		Long:                  validateLong,
		Example:               validateExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Complete(cmd, args))
			util.CheckErr(o.Run(cmd.Context()))
		},
	}

	cmd.Flags().BoolVarP(&o.Watch, "watch", "w", o.Watch, "Validate again whenever the crew file changes.")

	return cmd
}

// Complete completes all the required options.
func (o *ValidateOptions) Complete(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return util.UsageErrorf(cmd.CommandPath(), "exactly one crew name is required")
	}
	o.Name = args[0]
	return nil
}

// Run executes the validate command.
func (o *ValidateOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !o.Watch {
		valid, err := o.check(ctx)
		if err != nil {
			return err
		}
		if !valid {
			return util.ErrExit
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := o.check(ctx); err != nil {
		fmt.Fprintf(o.ErrOut, "%s %s\n", color.RedString("error:"), crewfile.UserMessage(err))
	}
	return crewfile.Watch(ctx, o.factory.CrewFiles().Path(o.Name), func(string) {
		fmt.Fprintln(o.Out)
		if _, err := o.check(ctx); err != nil {
			fmt.Fprintf(o.ErrOut, "%s %s\n", color.RedString("error:"), crewfile.UserMessage(err))
		}
	})
}

func (o *ValidateOptions) check(ctx context.Context) (bool, error) {
	sess, err := o.factory.CrewFiles().Load(ctx, o.Name)
	if err != nil {
		return false, err
	}
	report := crewService.Validate(sess)
	if report.Valid() {
		fmt.Fprintf(o.Out, "%s crew %q is ready to run\n", color.GreenString("✔"), o.Name)
		return true, nil
	}
	if sess.Empty() {
		fmt.Fprintf(o.Out, "%s crew %q has no agents\n", color.RedString("✘"), o.Name)
		return false, nil
	}
	for _, msg := range report.Messages() {
		fmt.Fprintf(o.Out, "%s %s\n", color.RedString("✘"), msg)
	}
	return false, nil
}
