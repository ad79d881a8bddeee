package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	runtimeEntity "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
	runtimeService "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/service"
	"github.com/kiosk404/andalem/pkg/ansihtml"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/kiosk404/andalem/pkg/utils/templates"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	runLong = templates.LongDesc(`
		Run a saved crew and print its result.

		The execution trace of verbose agents goes to stderr. Tasks that ask for
		human input, and the User Input tool, read their answers from stdin
		unless --no-input is set.

		Models, tools and memory are configured in andalem.yaml, the same file
		the andalem server reads.`)

	runExample = templates.Examples(`
		# Run a saved crew
		andactl run research_crew

		# Run without the execution trace and without asking for input
		andactl run research_crew --quiet --no-input

		# Run against a remote Ollama
		andactl run research_crew --models.ollama-url=http://gpu-box:11434`)
)

// RunOptions is an options struct to support the run command.
type RunOptions struct {
	Name    string
	NoInput bool
	Quiet   bool
	Plain   bool
	Width   int

	factory util.Factory
	genericclioptions.IOStreams
}

// NewRunOptions returns initialized RunOptions.
func NewRunOptions(f util.Factory, ioStreams genericclioptions.IOStreams) *RunOptions {
	return &RunOptions{factory: f, IOStreams: ioStreams}
}

// NewCmdRun returns new initialized instance of the run sub command.
func NewCmdRun(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := NewRunOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "run NAME [--quiet] [--no-input]",
		DisableFlagsInUseLine: true,
		Short:                 "Run a saved crew",
		Long:                  runLong,
		Example:               runExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Complete(cmd, args))
			util.CheckErr(o.Run(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&o.NoInput, "no-input", o.NoInput, "Skip human input instead of reading answers from stdin.")
	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", o.Quiet, "Do not print the execution trace.")
	cmd.Flags().BoolVar(&o.Plain, "plain", o.Plain, "Print the result as plain text instead of rendered markdown.")

	return cmd
}

// Complete completes all the required options.
func (o *RunOptions) Complete(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return util.UsageErrorf(cmd.CommandPath(), "exactly one crew name is required")
	}
	o.Name = args[0]
	if o.Width == 0 {
		o.Width = util.TermWidth()
	}
	return nil
}

// Run executes the run command.
func (o *RunOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := o.factory.CrewService(ctx)
	if err != nil {
		return err
	}
	sess, err := svc.CreateSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.DeleteSession(context.Background(), sess.ID) }()
	if sess, err = svc.LoadCrew(ctx, sess.ID, o.Name); err != nil {
		return err
	}

	mod, err := o.factory.Runtime(ctx)
	if err != nil {
		return err
	}
	defer mod.Close()

	opts := runtimeService.RunOptions{}
	if !o.Quiet {
		opts.Sink = runtimeService.LineSinkFunc(func(line runtimeService.Line) {
			fmt.Fprintln(o.ErrOut, line.Raw)
		})
	}
	if !o.NoInput {
		opts.Input = newStdinProvider(o.In, o.ErrOut)
	}

	run, err := mod.Orchestrator.Run(ctx, sess, opts)
	var invalid *runtimeService.InvalidCrewError
	if errors.As(err, &invalid) {
		fmt.Fprintf(o.ErrOut, "crew %q is not ready to run:\n", o.Name)
		for _, msg := range invalid.Report.Messages() {
			fmt.Fprintf(o.ErrOut, "  %s %s\n", color.RedString("✘"), msg)
		}
		return util.ErrExit
	}
	if err != nil {
		return err
	}

	if run.Error != nil {
		o.printFailure(run.Error)
		return util.ErrExit
	}
	return o.printOutputs(run.Outputs)
}

func (o *RunOptions) printFailure(runErr *runtimeEntity.RunError) {
	fmt.Fprintf(o.ErrOut, "%s %s\n", color.RedString("run failed:"), runErr.Message)
	if runErr.Category != runtimeEntity.CategoryUnknown {
		fmt.Fprintf(o.ErrOut, "  category: %s\n", runErr.Category)
	}
	for _, d := range runErr.Details {
		fmt.Fprintf(o.ErrOut, "  %s\n", d)
	}
}

func (o *RunOptions) printOutputs(blocks []runtimeEntity.OutputBlock) error {
	doc := outputMarkdown(blocks)
	if o.Plain {
		fmt.Fprint(o.Out, doc)
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithColorProfile(termenv.ANSI256),
		glamour.WithWordWrap(o.Width),
	)
	if err != nil {
		return err
	}
	rendered, err := r.Render(doc)
	if err != nil {
		return err
	}
	fmt.Fprint(o.Out, rendered)
	return nil
}

// outputMarkdown lays the result blocks out as one markdown document.
func outputMarkdown(blocks []runtimeEntity.OutputBlock) string {
	var b strings.Builder
	for _, blk := range blocks {
		text := strings.TrimSpace(ansihtml.Strip(blk.Raw))
		switch blk.Kind {
		case runtimeEntity.OutputTaskDescription:
			fmt.Fprintf(&b, "## Agent %s, Task %d\n\n> %s\n\n",
				strings.ToUpper(blk.AgentID), blk.TaskNumber, strings.ReplaceAll(text, "\n", "\n> "))
		case runtimeEntity.OutputTaskResult:
			fmt.Fprintf(&b, "%s\n\n", text)
		default:
			fmt.Fprintf(&b, "## Final output\n\n%s\n\n", text)
		}
	}
	return b.String()
}
