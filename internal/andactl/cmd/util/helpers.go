package util

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ErrExit reports a failure that was already printed.
var ErrExit = errors.New("exit")

// CheckErr prints a user facing error and exits with code 1.
func CheckErr(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, ErrExit) {
		msg := strings.TrimSpace(err.Error())
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("error:"), msg)
	}
	os.Exit(1)
}

// UsageErrorf returns an error for a wrong invocation of cmdPath.
func UsageErrorf(cmdPath string, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s\nSee '%s -h' for help and examples", msg, cmdPath)
}

// TermWidth returns the width of the terminal on stdout, 80 when unknown.
func TermWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
