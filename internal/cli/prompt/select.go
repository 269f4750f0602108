// Package prompt provides the interactive source and target pickers.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

// Sentinel errors for selection.
var (
	ErrNoChoices          = errors.New("nothing to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Item is one selectable entry.
type Item struct {
	Label string

	// Detail is shown in the preview pane of the fuzzy finder.
	Detail string
}

// Finder picks one of items and returns its index. It returns
// [ErrSelectionCancelled] when the user backs out.
type Finder func(title string, items []Item) (int, error)

// FuzzyFinder is the full-screen finder used on capable terminals.
func FuzzyFinder(title string, items []Item) (int, error) {
	if len(items) == 0 {
		return 0, ErrNoChoices
	}

	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string {
			return items[i].Label
		},
		fuzzyfinder.WithHeader(title),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return items[i].Detail
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return 0, ErrSelectionCancelled
		}
		return 0, errors.Wrap(err, "interactive selection failed")
	}
	return idx, nil
}

// Selector is a numbered line-based finder for terminals that cannot host
// the fuzzy finder.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector returns a Selector reading answers from r and printing to w.
func NewSelector(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Find prints a numbered list and reads the chosen number. An empty answer
// selects the first item; EOF cancels.
func (s *Selector) Find(title string, items []Item) (int, error) {
	if len(items) == 0 {
		return 0, ErrNoChoices
	}

	fmt.Fprintf(s.writer, "%s\n", title)
	for i, it := range items {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, it.Label)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := s.readLine()
	if err != nil {
		return 0, err
	}
	if input == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if n < 1 || n > len(items) {
		return 0, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(items))
	}
	return n - 1, nil
}

// Ask prints question and returns the trimmed answer.
func (s *Selector) Ask(question string) (string, error) {
	fmt.Fprintf(s.writer, "%s: ", question)
	return s.readLine()
}

func (s *Selector) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading selection")
	}
	return strings.TrimSpace(line), nil
}
