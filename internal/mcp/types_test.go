package mcp

import (
	"reflect"
	"testing"

	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

func TestConfig_IDsKeepInsertionOrder(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("zeta", &Server{Command: "z"})
	cfg.Set("alpha", &Server{Command: "a"})
	cfg.Set("zeta", &Server{Command: "z2"})

	if got, want := cfg.IDs(), []string{"zeta", "alpha"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if s, _ := cfg.Get("zeta"); s.Command != "z2" {
		t.Errorf("Get(zeta).Command = %q, want z2", s.Command)
	}
}

func TestConfig_IDsIncludeDirectAssignments(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("second", &Server{})
	cfg.Servers["b"] = &Server{}
	cfg.Servers["a"] = &Server{}

	if got, want := cfg.IDs(), []string{"second", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestConfig_Delete(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("a", &Server{})
	cfg.Set("b", &Server{})
	cfg.Delete("a")
	cfg.Delete("missing")

	if got, want := cfg.IDs(), []string{"b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if cfg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cfg.Len())
	}
}

func TestConfig_NilIsEmpty(t *testing.T) {
	var cfg *Config
	if cfg.Len() != 0 || cfg.IDs() != nil {
		t.Error("nil config should be empty")
	}
	if _, ok := cfg.Get("x"); ok {
		t.Error("Get on nil config reported a server")
	}
}

func TestConfig_CloneIsDeep(t *testing.T) {
	extra := ordered.New()
	extra.Set("alwaysAllow", []any{"read"})
	cfg := NewConfig()
	cfg.Set("fs", &Server{
		Command: "npx",
		Args:    []string{"a"},
		Env:     map[string]string{"K": "v"},
		Extra:   extra,
	})

	cp := cfg.Clone()
	s, _ := cp.Get("fs")
	s.Args[0] = "changed"
	s.Env["K"] = "changed"
	list, _ := s.Extra.Get("alwaysAllow")
	list.([]any)[0] = "changed"

	orig, _ := cfg.Get("fs")
	if orig.Args[0] != "a" || orig.Env["K"] != "v" {
		t.Errorf("clone shares args or env with original: %+v", orig)
	}
	if v, _ := orig.Extra.Get("alwaysAllow"); v.([]any)[0] != "read" {
		t.Errorf("clone shares extra with original: %v", v)
	}
}

func TestServer_SetEnvRemembersOrder(t *testing.T) {
	s := &Server{}
	s.SetEnv("B", "1")
	s.SetEnv("A", "2")
	s.SetEnv("B", "3")
	s.Env["C"] = "4"

	if got, want := s.EnvKeys(), []string{"B", "A", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("EnvKeys() = %v, want %v", got, want)
	}
}

func TestHost_Getenv(t *testing.T) {
	h := Host{OS: "windows", LookupEnv: func(k string) (string, bool) {
		if k == "SystemRoot" {
			return `D:\Win`, true
		}
		return "", false
	}}

	if !h.IsWindows() {
		t.Error("IsWindows() = false, want true")
	}
	if got := h.Getenv("SystemRoot", `C:\Windows`); got != `D:\Win` {
		t.Errorf("Getenv(SystemRoot) = %q", got)
	}
	if got := h.Getenv("PROGRAMFILES", `C:\Program Files`); got != `C:\Program Files` {
		t.Errorf("Getenv(PROGRAMFILES) = %q", got)
	}
	if got := (Host{}).Getenv("X", "fallback"); got != "fallback" {
		t.Errorf("zero Host Getenv = %q, want fallback", got)
	}
}
