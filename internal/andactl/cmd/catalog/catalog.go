package catalog

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/kiosk404/andalem/pkg/utils/templates"
	"github.com/spf13/cobra"
)

var (
	catalogLong = templates.LongDesc(`
		Print the choices a crew configuration may use.

		Without a subject every section is printed. The subjects are models,
		tools, processes and fields.`)

	catalogExample = templates.Examples(`
		# Print the whole catalog
		andactl catalog

		# Print the selectable models only
		andactl catalog models

		# Print the agent, task and crew fields with their descriptions
		andactl catalog fields`)
)

const (
	subjectModels    = "models"
	subjectTools     = "tools"
	subjectProcesses = "processes"
	subjectFields    = "fields"
)

var subjects = []string{subjectModels, subjectTools, subjectProcesses, subjectFields}

// CatalogOptions is an options struct to support the catalog command.
type CatalogOptions struct {
	Subjects []string
	Width    int

	genericclioptions.IOStreams
}

// NewCatalogOptions returns initialized CatalogOptions.
func NewCatalogOptions(ioStreams genericclioptions.IOStreams) *CatalogOptions {
	return &CatalogOptions{IOStreams: ioStreams}
}

// NewCmdCatalog returns new initialized instance of the catalog sub command.
func NewCmdCatalog(_ util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := NewCatalogOptions(ioStreams)

	cmd := &cobra.Command{
		Use:                   "catalog [models|tools|processes|fields]",
		DisableFlagsInUseLine: true,
		Short:                 "Print the selectable models, tools, processes and fields",
		Long:                  catalogLong,
		Example:               catalogExample,
		ValidArgs:             subjects,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Complete(args))
			util.CheckErr(o.Validate(cmd))
			util.CheckErr(o.Run())
		},
	}
	return cmd
}

// Complete completes all the required options.
func (o *CatalogOptions) Complete(args []string) error {
	o.Subjects = args
	if len(o.Subjects) == 0 {
		o.Subjects = subjects
	}
	if o.Width == 0 {
		o.Width = util.TermWidth()
	}
	return nil
}

// Validate makes sure there is no discrepency in command options.
func (o *CatalogOptions) Validate(cmd *cobra.Command) error {
	for _, s := range o.Subjects {
		known := false
		for _, k := range subjects {
			if s == k {
				known = true
			}
		}
		if !known {
			return util.UsageErrorf(cmd.CommandPath(), "unknown subject %q, expected one of %s", s, strings.Join(subjects, ", "))
		}
	}
	return nil
}

// Run executes the catalog command.
func (o *CatalogOptions) Run() error {
	for i, s := range o.Subjects {
		if i > 0 {
			fmt.Fprintln(o.Out)
		}
		switch s {
		case subjectModels:
			o.printModels()
		case subjectTools:
			o.printTools()
		case subjectProcesses:
			o.printProcesses()
		case subjectFields:
			o.printFields()
		}
	}
	return nil
}

func (o *CatalogOptions) newTable() *uitable.Table {
	table := uitable.New()
	table.Separator = "  "
	table.MaxColWidth = uint(o.Width / 2)
	table.Wrap = true
	return table
}

func (o *CatalogOptions) printModels() {
	table := o.newTable()
	table.AddRow("MODEL", "PROVIDER", "MODEL ID")
	for _, m := range catalog.Models() {
		key := string(m.Key)
		if m.Key == catalog.DefaultAgentModel {
			key += " (default)"
		}
		table.AddRow(key, m.Provider, m.ModelID)
	}
	fmt.Fprintln(o.Out, table)
}

func (o *CatalogOptions) printTools() {
	table := o.newTable()
	table.AddRow("TOOL", "NAME", "DESCRIPTION")
	for _, t := range catalog.Tools() {
		table.AddRow(string(t.Key), t.Name, t.Description)
	}
	fmt.Fprintln(o.Out, table)
}

func (o *CatalogOptions) printProcesses() {
	table := o.newTable()
	table.AddRow("PROCESS")
	for _, p := range catalog.Processes() {
		table.AddRow(p)
	}
	fmt.Fprintln(o.Out, table)
}

func (o *CatalogOptions) printFields() {
	sections := []struct {
		name   string
		fields []catalog.Field
	}{
		{"agent", catalog.AgentFields()},
		{"task", catalog.TaskFields()},
		{"crew", catalog.CrewFields()},
	}
	table := o.newTable()
	table.AddRow("RECORD", "FIELD", "REQUIRED", "DESCRIPTION")
	for _, sec := range sections {
		for _, f := range sec.fields {
			req := "no"
			switch {
			case f.RequiredWhen != "":
				req = "when " + f.RequiredWhen
			case f.Required:
				req = "yes"
			}
			table.AddRow(sec.name, f.Name, req, f.Description)
		}
	}
	fmt.Fprintln(o.Out, table)
}
