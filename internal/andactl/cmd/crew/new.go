package crew

import (
	"context"
	"fmt"

	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	crewService "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/crewfile"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/kiosk404/andalem/pkg/utils/templates"
	"github.com/spf13/cobra"
)

var (
	newLong = templates.LongDesc(`
		Create a crew file skeleton.

		The crew gets the requested number of agents with default settings and
		one empty task each. Fill in the names, roles, goals and task
		descriptions in the written file before running it.`)

	newExample = templates.Examples(`
		# Create a sequential crew with two agents
		andactl new research_crew --agents=2

		# Create a hierarchical crew, replacing an existing file
		andactl new research_crew --process=Hierarchical --overwrite`)
)

// NewOptions is an options struct to support the new command.
type NewOptions struct {
	Name      string
	Agents    int
	Process   string
	Overwrite bool

	factory util.Factory
	genericclioptions.IOStreams
}

// NewNewOptions returns initialized NewOptions.
func NewNewOptions(f util.Factory, ioStreams genericclioptions.IOStreams) *NewOptions {
	return &NewOptions{
		Agents:    1,
		Process:   catalog.ProcessSequential.String(),
		factory:   f,
		IOStreams: ioStreams,
	}
}

// NewCmdNew returns new initialized instance of the new sub command.
func NewCmdNew(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := NewNewOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "new NAME [--agents=N] [--process=Sequential|Hierarchical]",
		DisableFlagsInUseLine: true,
		Aliases:               []string{"create"},
		Short:                 "Create a crew file skeleton",
		Long:                  newLong,
		Example:               newExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Complete(cmd, args))
			util.CheckErr(o.Validate(cmd))
			util.CheckErr(o.Run(cmd.Context()))
		},
	}

	cmd.Flags().IntVar(&o.Agents, "agents", o.Agents, "Number of agents to create.")
	cmd.Flags().StringVar(&o.Process, "process", o.Process, "Crew process, Sequential or Hierarchical.")
	cmd.Flags().BoolVar(&o.Overwrite, "overwrite", o.Overwrite, "Replace an existing crew file with the same name.")

	return cmd
}

// Complete completes all the required options.
func (o *NewOptions) Complete(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return util.UsageErrorf(cmd.CommandPath(), "exactly one crew name is required")
	}
	o.Name = args[0]
	return nil
}

// Validate makes sure there is no discrepency in command options.
func (o *NewOptions) Validate(cmd *cobra.Command) error {
	if crewfile.FormatFilename(o.Name) == "" {
		return util.UsageErrorf(cmd.CommandPath(), "crew name %q is empty once normalized", o.Name)
	}
	if o.Agents < 1 || o.Agents > 26 {
		return util.UsageErrorf(cmd.CommandPath(), "--agents must be between 1 and 26")
	}
	valid := false
	for _, p := range catalog.Processes() {
		if p == o.Process {
			valid = true
		}
	}
	if !valid {
		return util.UsageErrorf(cmd.CommandPath(), "--process must be one of %v", catalog.Processes())
	}
	return nil
}

// Run executes the new command.
func (o *NewOptions) Run(ctx context.Context) error {
	svc, err := o.factory.CrewService(ctx)
	if err != nil {
		return err
	}
	sess, err := svc.CreateSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.DeleteSession(ctx, sess.ID) }()

	for i := 0; i < o.Agents; i++ {
		agent, err := svc.AddAgent(ctx, sess.ID)
		if err != nil {
			return err
		}
		if _, err := svc.AddTask(ctx, sess.ID, agent.ID); err != nil {
			return err
		}
	}

	name, process := o.Name, catalog.MapProcess(o.Process)
	if _, err := svc.UpdateCrew(ctx, sess.ID, crewService.CrewPatch{Name: &name, Process: &process}); err != nil {
		return err
	}
	saved, err := svc.SaveCrew(ctx, sess.ID, o.Name, o.Overwrite)
	if err != nil {
		return err
	}
	fmt.Fprintf(o.Out, "crew %q created at %s\n", saved, o.factory.CrewFiles().Path(saved))
	return nil
}
