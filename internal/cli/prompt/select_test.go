package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

var twoItems = []Item{
	{Label: "Claude Code (~/.claude.json)"},
	{Label: "Codex (~/.codex/config.toml)"},
}

func TestFind_EmptyList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelector(strings.NewReader(""), &buf)

	_, err := s.Find("Pick", nil)
	if !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got: %v", err)
	}
}

func TestFind_ValidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantIdx int
	}{
		{name: "explicit first", input: "1\n", wantIdx: 0},
		{name: "explicit second", input: "2\n", wantIdx: 1},
		{name: "default on empty", input: "\n", wantIdx: 0},
		{name: "whitespace trimmed", input: "  2  \n", wantIdx: 1},
		{name: "no trailing newline", input: "2", wantIdx: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelector(strings.NewReader(tt.input), &buf)

			idx, err := s.Find("Pick", twoItems)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idx != tt.wantIdx {
				t.Errorf("expected index %d, got %d", tt.wantIdx, idx)
			}
		})
	}
}

func TestFind_InvalidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "too low", input: "0\n", wantErr: "out of range"},
		{name: "too high", input: "3\n", wantErr: "out of range"},
		{name: "negative", input: "-1\n", wantErr: "out of range"},
		{name: "not a number", input: "abc\n", wantErr: "not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelector(strings.NewReader(tt.input), &buf)

			_, err := s.Find("Pick", twoItems)
			if !errors.Is(err, ErrInvalidSelection) {
				t.Fatalf("expected ErrInvalidSelection, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestFind_Cancelled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelector(strings.NewReader(""), &buf)

	_, err := s.Find("Pick", twoItems)
	if !errors.Is(err, ErrSelectionCancelled) {
		t.Errorf("expected ErrSelectionCancelled, got: %v", err)
	}
}

func TestFind_OutputFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelector(strings.NewReader("1\n"), &buf)

	if _, err := s.Find("Select the configuration source", twoItems); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Select the configuration source\n",
		"  [1] Claude Code (~/.claude.json)\n",
		"  [2] Codex (~/.codex/config.toml)\n",
		"Select [1]: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAsk(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelector(strings.NewReader("  ~/x.json \n"), &buf)

	got, err := s.Ask("Source file path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "~/x.json" {
		t.Errorf("expected trimmed answer, got %q", got)
	}
	if buf.String() != "Source file path: " {
		t.Errorf("unexpected prompt %q", buf.String())
	}
}
