package mcp

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

func TestNormalizeServer(t *testing.T) {
	tests := []struct {
		name  string
		input any
		check func(t *testing.T, s *Server)
	}{
		{
			name:  "nil yields full empty shape",
			input: nil,
			check: func(t *testing.T, s *Server) {
				if s.Command != "" || s.Args == nil || s.Env == nil || s.Extra == nil {
					t.Errorf("unexpected shape: %+v", s)
				}
			},
		},
		{
			name:  "non-object input yields empty server",
			input: "npx",
			check: func(t *testing.T, s *Server) {
				if s.Command != "" || len(s.Args) != 0 {
					t.Errorf("unexpected server: %+v", s)
				}
			},
		},
		{
			name: "args coerced to strings",
			input: map[string]any{
				"command": "node",
				"args":    []any{"server.js", json.Number("8080"), true},
			},
			check: func(t *testing.T, s *Server) {
				want := []string{"server.js", "8080", "true"}
				if !reflect.DeepEqual(s.Args, want) {
					t.Errorf("Args = %v, want %v", s.Args, want)
				}
			},
		},
		{
			name:  "single string args wrapped",
			input: map[string]any{"args": "--verbose"},
			check: func(t *testing.T, s *Server) {
				if !reflect.DeepEqual(s.Args, []string{"--verbose"}) {
					t.Errorf("Args = %v", s.Args)
				}
			},
		},
		{
			name:  "other args types become empty",
			input: map[string]any{"args": json.Number("3")},
			check: func(t *testing.T, s *Server) {
				if s.Args == nil || len(s.Args) != 0 {
					t.Errorf("Args = %#v, want empty slice", s.Args)
				}
			},
		},
		{
			name: "env drops null and stringifies",
			input: func() any {
				env := ordered.New()
				env.Set("B", json.Number("2"))
				env.Set("GONE", nil)
				env.Set("A", "x")
				m := ordered.New()
				m.Set("env", env)
				return m
			}(),
			check: func(t *testing.T, s *Server) {
				want := map[string]string{"B": "2", "A": "x"}
				if !reflect.DeepEqual(s.Env, want) {
					t.Errorf("Env = %v, want %v", s.Env, want)
				}
				if got := s.EnvKeys(); !reflect.DeepEqual(got, []string{"B", "A"}) {
					t.Errorf("EnvKeys() = %v", got)
				}
			},
		},
		{
			name:  "falsy command is unset",
			input: map[string]any{"command": ""},
			check: func(t *testing.T, s *Server) {
				if s.Command != "" {
					t.Errorf("Command = %q", s.Command)
				}
			},
		},
		{
			name:  "stdio type inferred from flag",
			input: map[string]any{"command": "srv", "args": []any{"--stdio"}},
			check: func(t *testing.T, s *Server) {
				if s.Type != TypeStdio {
					t.Errorf("Type = %q, want stdio", s.Type)
				}
			},
		},
		{
			name:  "explicit type not overridden",
			input: map[string]any{"type": "sse", "args": []any{"--stdio"}},
			check: func(t *testing.T, s *Server) {
				if s.Type != "sse" {
					t.Errorf("Type = %q, want sse", s.Type)
				}
			},
		},
		{
			name: "extra shallow copied without named keys",
			input: map[string]any{
				"command": "x",
				"ignored": "top-level unknown keys are not extra",
				"extra":   map[string]any{"timeout": json.Number("5"), "command": "dup"},
			},
			check: func(t *testing.T, s *Server) {
				if got := s.Extra.Keys(); !reflect.DeepEqual(got, []string{"timeout"}) {
					t.Errorf("Extra keys = %v", got)
				}
			},
		},
		{
			name: "typed server extra stripped of named keys",
			input: &Server{
				Command: "x",
				Extra: func() *ordered.Map {
					m := ordered.New()
					m.Set("cwd", "/tmp")
					m.Set("disabled", false)
					return m
				}(),
			},
			check: func(t *testing.T, s *Server) {
				if got := s.Extra.Keys(); !reflect.DeepEqual(got, []string{"disabled"}) {
					t.Errorf("Extra keys = %v", got)
				}
				if s.Cwd != "" {
					t.Errorf("Cwd = %q, extra must not leak into named fields", s.Cwd)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NormalizeServer(tt.input))
		})
	}
}

func TestNormalizeServer_Idempotent(t *testing.T) {
	inputs := []any{
		nil,
		map[string]any{"command": "npx", "args": []any{"-y", "pkg", "--stdio"}},
		map[string]any{
			"command":     "node",
			"env":         map[string]any{"Z": "1", "A": json.Number("2")},
			"cwd":         "/srv",
			"description": "demo",
			"transport":   "stdio",
			"extra":       map[string]any{"startup_timeout_ms": json.Number("1000")},
		},
		&Server{Command: "c", Env: map[string]string{"K": "v"}},
	}

	for _, in := range inputs {
		once := NormalizeServer(in)
		twice := NormalizeServer(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("not idempotent for %#v:\nonce  %+v\ntwice %+v", in, once, twice)
		}
	}
}

func TestNormalizeServer_DoesNotAliasInput(t *testing.T) {
	in := &Server{Args: []string{"a"}, Env: map[string]string{"K": "v"}}
	out := NormalizeServer(in)
	out.Args[0] = "b"
	out.Env["K"] = "w"

	if in.Args[0] != "a" || in.Env["K"] != "v" {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestEnsureCanonical(t *testing.T) {
	if got := EnsureCanonical(nil); got == nil || got.Len() != 0 {
		t.Fatalf("EnsureCanonical(nil) = %+v, want empty config", got)
	}

	cfg := NewConfig()
	cfg.Set("b", &Server{Command: "x", Args: nil})
	cfg.Set("a", nil)

	got := EnsureCanonical(cfg)
	if ids := got.IDs(); !reflect.DeepEqual(ids, []string{"b", "a"}) {
		t.Errorf("IDs() = %v", ids)
	}
	for _, id := range got.IDs() {
		s, _ := got.Get(id)
		if s == nil || s.Args == nil || s.Env == nil || s.Extra == nil {
			t.Errorf("server %q not fully normalized: %+v", id, s)
		}
	}
}
