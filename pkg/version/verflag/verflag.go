// Package verflag defines the --version flag of the command line tools.
package verflag

import (
	"fmt"
	"io"
	"os"

	"github.com/kiosk404/andalem/pkg/version"
	"github.com/kiosk404/andalem/pkg/utils/json"
	"github.com/spf13/pflag"
)

const versionFlagName = "version"

// Value is the --version flag: "true" prints a short line, "raw" the full JSON.
type Value string

const (
	VersionFalse Value = "false"
	VersionTrue  Value = "true"
	VersionRaw   Value = "raw"
)

var versionFlag = VersionFalse

func (v *Value) String() string { return string(*v) }

func (v *Value) Set(s string) error {
	switch Value(s) {
	case VersionFalse, VersionTrue, VersionRaw:
		*v = Value(s)
		return nil
	}
	return fmt.Errorf("invalid --version value %q, expected true, false or raw", s)
}

func (v *Value) Type() string { return "version" }

// IsBoolFlag lets --version be given without a value.
func (v *Value) IsBoolFlag() bool { return true }

// AddFlags registers the --version flag on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.Var(&versionFlag, versionFlagName, "Print version information and quit. Use --version=raw for JSON.")
	fs.Lookup(versionFlagName).NoOptDefVal = string(VersionTrue)
}

// PrintAndExitIfRequested prints the version and exits when --version was given.
func PrintAndExitIfRequested() {
	if Print(os.Stdout) {
		os.Exit(0)
	}
}

// Print writes the version to w when requested and reports whether it did.
func Print(w io.Writer) bool {
	switch versionFlag {
	case VersionRaw:
		data, _ := json.MarshalIndent(version.Get(), "", "  ")
		fmt.Fprintln(w, string(data))
		return true
	case VersionTrue:
		fmt.Fprintf(w, "andalem %s\n", version.Get().GitVersion)
		return true
	}
	return false
}
