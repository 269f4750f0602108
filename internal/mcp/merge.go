package mcp

import "github.com/thoreinstein/syncmcp/pkg/ordered"

// MergeEnv overlays override's environment on base's. Keys keep their
// position from base and keys new in override follow in override's order.
// On conflict override wins. Neither server is modified; nil servers are
// treated as having no environment.
func MergeEnv(base, override *Server) (env map[string]string, keys []string) {
	env = make(map[string]string)
	for _, src := range []*Server{base, override} {
		for _, k := range src.EnvKeys() {
			if _, seen := env[k]; !seen {
				keys = append(keys, k)
			}
			env[k] = src.Env[k]
		}
	}
	return env, keys
}

// MergeExtra returns a new map holding base's entries overridden by
// override's. Values are deep-copied so the result shares nothing with
// either input.
func MergeExtra(base, override *ordered.Map) *ordered.Map {
	out := base.Clone()
	if out == nil {
		out = ordered.New()
	}
	for k, v := range override.All() {
		out.Set(k, ordered.Clone(v))
	}
	return out
}

// WithEnv returns a copy of s whose environment is replaced by env, in the
// order given by keys.
func (s *Server) WithEnv(env map[string]string, keys []string) *Server {
	out := s.Clone()
	if out == nil {
		out = emptyServer()
	}
	out.Env = make(map[string]string, len(env))
	out.envOrder = nil
	for _, k := range keys {
		if v, ok := env[k]; ok {
			out.SetEnv(k, v)
		}
	}
	for _, k := range orderedKeys(nil, env) {
		if _, ok := out.Env[k]; !ok {
			out.SetEnv(k, env[k])
		}
	}
	return out
}
