package utils

import (
	"os"

	"golang.org/x/term"
)

// Terminal color codes used by the command line output.
var (
	SuccessColor = "\x1b[92m"
	ErrorColor   = "\x1b[31m"
	DefaultColor = "\x1b[39m"
)

func init() {
	if !IsTerminal(os.Stdout) || !IsTerminal(os.Stderr) {
		DisableColors()
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// DisableColors turns every color code into an empty string.
func DisableColors() {
	SuccessColor, ErrorColor, DefaultColor = "", "", ""
}

// Colorize wraps s into the given color code.
func Colorize(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + DefaultColor
}
