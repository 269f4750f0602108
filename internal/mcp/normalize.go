package mcp

import (
	"encoding/json"
	"slices"

	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// NormalizeServer coerces loosely-typed input into a fully populated Server.
//
// Accepted inputs are *Server, Server, *ordered.Map and map[string]any; any
// other value, nil included, yields an empty server. The result always has
// non-nil Args, Env and Extra. Normalizing an already normalized server
// yields an equal value.
func NormalizeServer(input any) *Server {
	switch v := input.(type) {
	case *Server:
		if v == nil {
			return emptyServer()
		}
		return normalizeTyped(v)
	case Server:
		return normalizeTyped(&v)
	case *ordered.Map:
		if v == nil {
			return emptyServer()
		}
		return normalizeFields(v.Get)
	case map[string]any:
		if v == nil {
			return emptyServer()
		}
		return normalizeFields(func(key string) (any, bool) {
			val, ok := v[key]
			return val, ok
		})
	default:
		return emptyServer()
	}
}

// EnsureCanonical returns a normalized copy of cfg. A nil config yields an
// empty one. It never fails.
func EnsureCanonical(cfg *Config) *Config {
	out := NewConfig()
	if cfg == nil {
		return out
	}
	for _, id := range cfg.IDs() {
		out.Set(id, NormalizeServer(cfg.Servers[id]))
	}
	return out
}

// NormalizeEnv converts an env mapping into string values, dropping null
// entries. Non-mapping input yields an empty result.
func NormalizeEnv(input any) (env map[string]string, keys []string) {
	env = make(map[string]string)
	add := func(k string, v any) {
		if v == nil {
			return
		}
		if _, seen := env[k]; !seen {
			keys = append(keys, k)
		}
		env[k] = ordered.String(v)
	}

	switch v := input.(type) {
	case *ordered.Map:
		for k, val := range v.All() {
			add(k, val)
		}
	case map[string]any:
		for _, k := range ordered.FromMap(v).Keys() {
			add(k, v[k])
		}
	case map[string]string:
		for _, k := range ordered.FromMap(stringMapAny(v)).Keys() {
			add(k, v[k])
		}
	}
	return env, keys
}

// StringSlice converts an args value into strings. A lone string becomes a
// one-element slice; any other non-list value yields an empty slice.
func StringSlice(input any) []string {
	switch v := input.(type) {
	case []string:
		return append(make([]string, 0, len(v)), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, ordered.String(item))
		}
		return out
	case string:
		return []string{v}
	default:
		return []string{}
	}
}

func emptyServer() *Server {
	return &Server{
		Args:  []string{},
		Env:   make(map[string]string),
		Extra: ordered.New(),
	}
}

func normalizeTyped(s *Server) *Server {
	out := emptyServer()
	out.Command = s.Command
	out.Args = StringSlice(s.Args)
	for _, k := range s.EnvKeys() {
		out.SetEnv(k, s.Env[k])
	}
	out.Type = s.Type
	out.Transport = s.Transport
	out.Cwd = s.Cwd
	out.Description = s.Description
	for k, v := range s.Extra.All() {
		if !IsNamedField(k) {
			out.Extra.Set(k, v)
		}
	}
	inferType(out)
	return out
}

func normalizeFields(get func(string) (any, bool)) *Server {
	out := emptyServer()
	field := func(key string) string {
		v, _ := get(key)
		s, _ := truthyString(v)
		return s
	}

	out.Command = field(FieldCommand)
	if v, ok := get(FieldArgs); ok {
		out.Args = StringSlice(v)
	}
	if v, ok := get(FieldEnv); ok {
		out.Env, out.envOrder = NormalizeEnv(v)
	}
	out.Type = field(FieldType)
	out.Transport = field(FieldTransport)
	out.Cwd = field(FieldCwd)
	out.Description = field(FieldDescription)

	if v, ok := get(FieldExtra); ok {
		switch extra := v.(type) {
		case *ordered.Map:
			for k, val := range extra.All() {
				if !IsNamedField(k) {
					out.Extra.Set(k, val)
				}
			}
		case map[string]any:
			for k, val := range ordered.FromMap(extra).All() {
				if !IsNamedField(k) {
					out.Extra.Set(k, val)
				}
			}
		}
	}
	inferType(out)
	return out
}

// inferType marks a server as stdio when it passes --stdio and declares no type.
func inferType(s *Server) {
	if s.Type == "" && slices.Contains(s.Args, "--stdio") {
		s.Type = TypeStdio
	}
}

// truthyString stringifies scalars that a loosely-typed document would
// treat as set: non-empty strings, non-zero numbers and true.
func truthyString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case bool:
		if val {
			return "true", true
		}
	case json.Number, int64, int, float64:
		if n, ok := ordered.Number(val); ok && n != 0 {
			return ordered.String(val), true
		}
	}
	return "", false
}

func stringMapAny(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
