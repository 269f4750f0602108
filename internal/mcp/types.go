package mcp

import (
	"maps"
	"os"
	"runtime"
	"slices"
	"sort"

	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// TypeStdio is the transport type for local process communication via
// stdin/stdout. It is inferred when a server passes the --stdio flag.
const TypeStdio = "stdio"

// Field names of the canonical server. [Server.Extra] never holds these keys.
const (
	FieldCommand     = "command"
	FieldArgs        = "args"
	FieldEnv         = "env"
	FieldType        = "type"
	FieldTransport   = "transport"
	FieldCwd         = "cwd"
	FieldDescription = "description"
	FieldExtra       = "extra"
)

var namedFields = []string{
	FieldCommand,
	FieldArgs,
	FieldEnv,
	FieldType,
	FieldTransport,
	FieldCwd,
	FieldDescription,
}

// IsNamedField reports whether key is one of the canonical server fields.
func IsNamedField(key string) bool {
	return slices.Contains(namedFields, key)
}

// Server is the tool-agnostic description of a launchable MCP server.
// Empty strings mean "unset".
type Server struct {
	// Command is the executable to launch.
	Command string

	// Args are the invocation arguments. Never nil after normalization.
	Args []string

	// Env holds environment variables passed to the server process.
	Env map[string]string

	// Type is the transport kind, e.g. "stdio".
	Type string

	// Transport is an alternate transport descriptor, distinct from Type.
	Transport string

	// Cwd is the working directory.
	Cwd string

	// Description is a human-readable label.
	Description string

	// Extra holds fields no adapter recognizes, preserved opaquely and in order.
	Extra *ordered.Map

	// envOrder remembers the order Env keys were first seen in.
	envOrder []string
}

// EnvKeys returns the Env keys in the order they were first seen.
// Keys added to Env directly, without SetEnv, follow in sorted order.
func (s *Server) EnvKeys() []string {
	if s == nil {
		return nil
	}
	return orderedKeys(s.envOrder, s.Env)
}

// SetEnv sets an environment variable, remembering its position.
func (s *Server) SetEnv(key, value string) {
	if s.Env == nil {
		s.Env = make(map[string]string)
	}
	if _, ok := s.Env[key]; !ok && !slices.Contains(s.envOrder, key) {
		s.envOrder = append(s.envOrder, key)
	}
	s.Env[key] = value
}

// Clone returns a deep copy of the server.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Args = slices.Clone(s.Args)
	cp.Env = maps.Clone(s.Env)
	cp.envOrder = slices.Clone(s.envOrder)
	cp.Extra = s.Extra.Clone()
	return &cp
}

// Config is the canonical, tool-agnostic set of MCP servers keyed by id.
// Ids are unique and case-sensitive.
type Config struct {
	// Servers maps server ids to their configurations.
	Servers map[string]*Server

	// order remembers insertion order so iteration is deterministic.
	order []string
}

// NewConfig creates a new Config with initialized maps.
func NewConfig() *Config {
	return &Config{
		Servers: make(map[string]*Server),
	}
}

// Set adds or replaces a server. A replaced server keeps its position.
func (c *Config) Set(id string, server *Server) {
	if c.Servers == nil {
		c.Servers = make(map[string]*Server)
	}
	if _, ok := c.Servers[id]; !ok && !slices.Contains(c.order, id) {
		c.order = append(c.order, id)
	}
	c.Servers[id] = server
}

// Get returns the server stored under id.
func (c *Config) Get(id string) (*Server, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.Servers[id]
	return s, ok
}

// Delete removes a server. Removing a missing id is a no-op.
func (c *Config) Delete(id string) {
	if c == nil {
		return
	}
	delete(c.Servers, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
}

// IDs returns server ids in insertion order. Servers added to the map
// directly, without Set, follow in sorted order.
func (c *Config) IDs() []string {
	if c == nil {
		return nil
	}
	return orderedKeys(c.order, c.Servers)
}

// Len returns the number of servers.
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Servers)
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := NewConfig()
	for _, id := range c.IDs() {
		cp.Set(id, c.Servers[id].Clone())
	}
	return cp
}

// orderedKeys returns the keys of m that appear in order, in that order,
// followed by any remaining keys of m sorted.
func orderedKeys[V any](order []string, m map[string]V) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Host describes the machine a configuration is written for. It replaces
// ambient process state so conversions stay pure functions of their inputs.
type Host struct {
	// OS is a GOOS value such as "linux" or "windows".
	OS string

	// LookupEnv reads the host environment. Nil means an empty environment.
	LookupEnv func(key string) (string, bool)
}

// CurrentHost returns the Host for the running process.
func CurrentHost() Host {
	return Host{OS: runtime.GOOS, LookupEnv: os.LookupEnv}
}

// IsWindows reports whether the host runs Windows.
func (h Host) IsWindows() bool {
	return h.OS == "windows"
}

// Getenv returns the value of key, or fallback when unset.
func (h Host) Getenv(key, fallback string) string {
	if h.LookupEnv == nil {
		return fallback
	}
	if v, ok := h.LookupEnv(key); ok {
		return v
	}
	return fallback
}
