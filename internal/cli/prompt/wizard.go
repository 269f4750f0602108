package prompt

import (
	"fmt"
	"io"

	"github.com/thoreinstein/syncmcp/internal/cli"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
	"github.com/thoreinstein/syncmcp/internal/platform"
	"github.com/thoreinstein/syncmcp/pkg/fileutil"
)

// maxPathAttempts bounds how often a rejected custom path is asked again.
const maxPathAttempts = 3

// Wizard walks the user through choosing a source and a target.
type Wizard struct {
	locator platform.Locator
	find    Finder
	lines   *Selector
	out     io.Writer
}

// NewWizard returns a Wizard. find picks from lists; free-text answers are
// read from in.
func NewWizard(loc platform.Locator, find Finder, in io.Reader, out io.Writer) *Wizard {
	lines := NewSelector(in, out)
	if find == nil {
		find = lines.Find
	}
	return &Wizard{
		locator: loc,
		find:    find,
		lines:   lines,
		out:     out,
	}
}

type choice struct {
	tool   *platform.Tool
	path   string
	custom bool
}

// SelectSource offers every tool whose config exists plus a custom path.
// A custom path's tool is inferred from its location when possible.
func (w *Wizard) SelectSource() (cli.Endpoint, error) {
	var choices []choice
	var items []Item
	for _, d := range w.locator.DetectInstalled() {
		t := d.Tool
		choices = append(choices, choice{tool: &t, path: d.ConfigPath})
		items = append(items, toolItem(t, d.ConfigPath))
	}
	choices = append(choices, choice{custom: true})
	items = append(items, Item{Label: "Custom path...", Detail: "Enter the path of any MCP config file."})

	idx, err := w.find("Select the configuration source", items)
	if err != nil {
		return cli.Endpoint{}, err
	}
	if c := choices[idx]; !c.custom {
		return cli.Endpoint{Tool: c.tool, Path: c.path}, nil
	}

	path, err := w.askExistingPath()
	if err != nil {
		return cli.Endpoint{}, err
	}
	ep := cli.Endpoint{Path: path}
	if t, ok := w.locator.InferFromPath(path); ok {
		ep.Tool = &t
		fmt.Fprintf(w.out, "Detected %s configuration.\n", t.Name)
	}
	return ep, nil
}

// SelectTarget offers the detected tools other than the source, then any
// catalog tool.
func (w *Wizard) SelectTarget(source cli.Endpoint) (cli.Endpoint, error) {
	var choices []choice
	var items []Item
	for _, d := range w.locator.DetectInstalled() {
		if d.Tool.ID == source.ToolID() || paths.Same(d.ConfigPath, source.Path) {
			continue
		}
		t := d.Tool
		choices = append(choices, choice{tool: &t, path: d.ConfigPath})
		items = append(items, toolItem(t, d.ConfigPath))
	}
	choices = append(choices, choice{custom: true})
	items = append(items, Item{Label: "Another tool...", Detail: "Pick any supported tool, creating its config if needed."})

	idx, err := w.find("Select the configuration target", items)
	if err != nil {
		return cli.Endpoint{}, err
	}
	if c := choices[idx]; !c.custom {
		return cli.Endpoint{Tool: c.tool, Path: c.path}, nil
	}

	tools := platform.Tools()
	items = items[:0]
	for _, t := range tools {
		items = append(items, toolItem(t, w.locator.ConfigPath(t)))
	}
	idx, err = w.find("Select the target tool", items)
	if err != nil {
		return cli.Endpoint{}, err
	}
	t := tools[idx]
	return cli.Endpoint{Tool: &t, Path: w.locator.ConfigPath(t)}, nil
}

func (w *Wizard) askExistingPath() (string, error) {
	for range maxPathAttempts {
		answer, err := w.lines.Ask("Source file path")
		if err != nil {
			return "", err
		}
		if answer == "" {
			fmt.Fprintln(w.out, "Path is required.")
			continue
		}
		path, err := paths.Expand(answer)
		if err != nil {
			fmt.Fprintf(w.out, "Invalid path: %v\n", err)
			continue
		}
		if !fileutil.Exists(path) {
			fmt.Fprintf(w.out, "File not found: %s\n", paths.Display(path))
			continue
		}
		return path, nil
	}
	return "", errors.Wrap(ErrInvalidSelection, "no valid source path given")
}

func toolItem(t platform.Tool, path string) Item {
	return Item{
		Label:  cli.DescribeTool(t, path),
		Detail: fmt.Sprintf("%s\n\nConfig: %s\nDocs:   %s", t.Name, paths.Display(path), t.DocsURL),
	}
}
