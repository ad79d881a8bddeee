package cmd

import (
	"io"
	"os"

	"github.com/kiosk404/andalem/internal/andactl/cmd/catalog"
	"github.com/kiosk404/andalem/internal/andactl/cmd/crew"
	"github.com/kiosk404/andalem/internal/andactl/cmd/run"
	cmdutil "github.com/kiosk404/andalem/internal/andactl/cmd/util"
	genericapiserver "github.com/kiosk404/andalem/internal/pkg/server"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/kiosk404/andalem/pkg/logger"
	"github.com/kiosk404/andalem/pkg/utils/cliflag"
	"github.com/kiosk404/andalem/pkg/utils/templates"
	"github.com/kiosk404/andalem/pkg/version/verflag"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewDefaultAndaCtlCommand creates the `andactl` command with default arguments.
func NewDefaultAndaCtlCommand() *cobra.Command {
	return NewAndaCtlCommand(os.Stdin, os.Stdout, os.Stderr)
}

// NewAndaCtlCommand creates the `andactl` command and its nested children.
func NewAndaCtlCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cmds := &cobra.Command{
		Use:   "andactl",
		Short: "andactl edits, validates and runs saved crews",
		Long: Banner() + "\n" + templates.LongDesc(`
		andactl works on the crew files saved by the andalem server.

		It lists and shows saved crews, checks them for missing fields, creates
		new crew skeletons and runs a crew against the configured LLM providers,
		printing the verbose trace and rendering the final result.`),
		Run: runHelp,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verflag.PrintAndExitIfRequested()
			logger.SetOutput(errOut)
			return logger.SetLevel(viper.GetString(cmdutil.FlagLogLevel))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmds.SetIn(in)
	cmds.SetOut(out)
	cmds.SetErr(errOut)

	flags := cmds.PersistentFlags()
	flags.SetNormalizeFunc(cliflag.WordSepNormalizeFunc)
	addGlobalFlags(flags)
	verflag.AddFlags(flags)

	_ = viper.BindPFlags(flags)
	cobra.OnInitialize(func() {
		cmdutil.CheckErr(genericapiserver.LoadConfig(viper.GetString(cmdutil.FlagConfig), "andalem"))
	})

	ioStreams := genericclioptions.IOStreams{In: in, Out: out, ErrOut: errOut}
	f := cmdutil.NewDefaultFactory()

	groups := templates.CommandGroups{
		{
			Message: "Crew Commands:",
			Commands: []*cobra.Command{
				crew.NewCmdList(f, ioStreams),
				crew.NewCmdShow(f, ioStreams),
				crew.NewCmdNew(f, ioStreams),
				crew.NewCmdDelete(f, ioStreams),
			},
		},
		{
			Message: "Run Commands:",
			Commands: []*cobra.Command{
				crew.NewCmdValidate(f, ioStreams),
				run.NewCmdRun(f, ioStreams),
			},
		},
		{
			Message: "Reference Commands:",
			Commands: []*cobra.Command{
				catalog.NewCmdCatalog(f, ioStreams),
			},
		},
	}
	groups.Add(cmds)
	templates.ActsAsRootCommand(cmds, groups...)

	return cmds
}

func runHelp(cmd *cobra.Command, _ []string) {
	_ = cmd.Help()
}
