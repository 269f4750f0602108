package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdOf returns the file descriptor behind v, if it has one.
func fdOf(v any) (int, bool) {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

// IsTTY reports whether w is a terminal. Any writer with an Fd method,
// such as *os.File, is checked.
func IsTTY(w io.Writer) bool {
	fd, ok := fdOf(w)
	return ok && term.IsTerminal(fd)
}

// SupportsColor reports whether ANSI colors should be written to w: it must
// be a terminal, NO_COLOR (https://no-color.org) must be unset and TERM
// must not be "dumb".
func SupportsColor(w io.Writer) bool {
	return !colorDisabled() && IsTTY(w)
}

func colorDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}

// IsInteractive reports whether both in and out are terminals, the
// precondition for the interactive source/target picker.
func IsInteractive(in io.Reader, out io.Writer) bool {
	fd, ok := fdOf(in)
	return ok && term.IsTerminal(fd) && IsTTY(out)
}
