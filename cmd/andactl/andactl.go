package main

import (
	"os"

	"github.com/kiosk404/andalem/internal/andactl/cmd"
)

func main() {
	command := cmd.NewDefaultAndaCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
