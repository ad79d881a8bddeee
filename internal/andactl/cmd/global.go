package cmd

import (
	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	"github.com/spf13/pflag"
)

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringP(util.FlagConfig, "c", "", "Configuration file (yaml) with the models, tools and memory sections of the server.")
	flags.String(util.FlagCrewsDir, "saved_crews", "Directory holding the saved crew files.")
	flags.String(util.FlagLogLevel, "warn", "Log level of the diagnostics written to stderr.")
	flags.String(util.FlagOllamaURL, "", "Base URL of the local Ollama server.")
}
