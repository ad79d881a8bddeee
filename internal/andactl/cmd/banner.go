package cmd

import (
	"fmt"

	"github.com/kiosk404/andalem/pkg/version"
)

const bannerText = `
     _              _       _
    / \   _ __   __| | __ _| | ___ _ __ ___
   / _ \ | '_ \ / _' |/ _' | |/ _ \ '_ ' _ \
  / ___ \| | | | (_| | (_| | |  __/ | | | | |
 /_/   \_\_| |_|\__,_|\__,_|_|\___|_| |_| |_|

        Andalem Crew Configurator
`

// Banner returns the CLI banner string.
func Banner() string {
	return fmt.Sprintf("%s\n  Version: %s\n", bannerText, version.Get().String())
}
