package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Terminal styles. fatih/color disables them when stdout is not a TTY or
// NO_COLOR is set.
var (
	successStyle = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
	headerStyle  = color.New(color.FgCyan, color.Bold)
	boldStyle    = color.New(color.Bold)
	dimStyle     = color.New(color.FgHiBlack)
)

// status prints a progress line unless --quiet is set.
func status(w io.Writer, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// success prints a green check line unless --quiet is set.
func success(w io.Writer, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(w, "%s %s\n", successStyle.Sprint("✓"), fmt.Sprintf(format, args...))
}

// warn prints a yellow warning line. Warnings are shown even with --quiet.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnStyle.Sprint("!"), fmt.Sprintf(format, args...))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
