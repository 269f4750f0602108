// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

// Streams connects the editor to a terminal.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Command returns the command that opens path in the user's editor.
// $EDITOR and $VISUAL may carry arguments, as in "code --wait".
func Command(ctx context.Context, path string) *exec.Cmd {
	argv := Detect()
	argv = append(argv, path)
	return exec.CommandContext(ctx, argv[0], argv[1:]...)
}

// Open runs the editor on path and waits for it to exit.
func Open(ctx context.Context, path string, s Streams) error {
	cmd := Command(ctx, path)
	cmd.Stdin = s.In
	cmd.Stdout = s.Out
	cmd.Stderr = s.Err

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", cmd.Path)
	}
	return nil
}

// Detect returns the editor command line. Fallback chain:
// $EDITOR, $VISUAL, nano, vi.
func Detect() []string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return []string{"nano"}
	}
	return []string{"vi"}
}
