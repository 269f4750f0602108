package codex

import (
	"math"
	"slices"
	"strings"

	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// Codex server table keys with dedicated handling.
const (
	keyStartupTimeout = "startup_timeout_ms"

	// DefaultStartupTimeout is written when neither side sets a timeout.
	DefaultStartupTimeout int64 = 60000

	defaultCommand = "npx"
)

// canonicalSkip lists table keys that never land in canonical Extra.
var canonicalSkip = map[string]bool{
	mcp.FieldCommand:     true,
	mcp.FieldArgs:        true,
	mcp.FieldEnv:         true,
	keyStartupTimeout:    true,
	mcp.FieldExtra:       true,
	mcp.FieldType:        true,
	mcp.FieldTransport:   true,
	mcp.FieldDescription: true,
	mcp.FieldCwd:         true,
}

// recordFields are the keys a written server table carries before extras.
var recordFields = []string{mcp.FieldCommand, mcp.FieldArgs, mcp.FieldEnv, keyStartupTimeout}

// fromCodexServer converts a raw server table into canonical form.
//
// A nested "extra" table is merged in first, then every unrecognized key.
// A numeric startup_timeout_ms is carried in Extra so other adapters pass
// it through untouched.
func fromCodexServer(raw *ordered.Map) *mcp.Server {
	extra := ordered.New()
	if nested, ok := getMap(raw, mcp.FieldExtra); ok {
		extra.Merge(nested.Clone())
	}

	command, _ := getString(raw, mcp.FieldCommand)
	args := []string{}
	if v, ok := raw.Get(mcp.FieldArgs); ok {
		if list, ok := v.([]any); ok {
			args = mcp.StringSlice(list)
		}
	}
	command, args = unwrapShell(command, args)

	if v, ok := raw.Get(keyStartupTimeout); ok {
		if _, numeric := ordered.Number(v); numeric {
			extra.Set(keyStartupTimeout, v)
		}
	}
	for k, v := range raw.All() {
		if !canonicalSkip[k] {
			extra.Set(k, ordered.Clone(v))
		}
	}

	s := &mcp.Server{Command: command, Args: args, Extra: extra}
	if v, ok := raw.Get(mcp.FieldEnv); ok {
		s = s.WithEnv(mcp.NormalizeEnv(v))
	}
	s.Cwd, _ = getString(raw, mcp.FieldCwd)
	s.Type, _ = getString(raw, mcp.FieldType)
	s.Transport, _ = getString(raw, mcp.FieldTransport)
	s.Description, _ = getString(raw, mcp.FieldDescription)
	return mcp.NormalizeServer(s)
}

// unwrapShell undoes the "cmd /c <command> <args...>" wrapping used to
// launch servers on Windows, so the canonical model holds the real command.
func unwrapShell(command string, args []string) (string, []string) {
	name := strings.TrimSuffix(strings.ToLower(command), ".exe")
	if name != "cmd" || len(args) < 2 {
		return command, args
	}
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "/c", "/k":
		return args[1], slices.Clone(args[2:])
	}
	return command, args
}

// record is the shape written for one server table.
type record struct {
	command string
	args    []string
	env     *mcp.Server
	timeout any
	extra   *ordered.Map
}

// existingRecord reads a destination server table. Every key other than
// the record fields is kept in extra.
func existingRecord(raw any) record {
	rec := record{args: []string{}, env: &mcp.Server{}, extra: ordered.New()}
	table, ok := raw.(*ordered.Map)
	if !ok {
		return rec
	}

	rec.command, _ = getString(table, mcp.FieldCommand)
	if v, ok := table.Get(mcp.FieldArgs); ok {
		if list, ok := v.([]any); ok {
			rec.args = mcp.StringSlice(list)
		}
	}
	if v, ok := table.Get(mcp.FieldEnv); ok {
		rec.env = rec.env.WithEnv(mcp.NormalizeEnv(v))
	}
	if v, ok := table.Get(keyStartupTimeout); ok {
		if _, numeric := ordered.Number(v); numeric {
			rec.timeout = v
		}
	}
	for k, v := range table.All() {
		if !slices.Contains(recordFields, k) {
			rec.extra.Set(k, ordered.Clone(v))
		}
	}
	return rec
}

// buildRecord reconciles a canonical server with the existing destination
// table for the same id. A nil canonical server re-emits the existing
// table as it was.
func buildRecord(canonical *mcp.Server, existingRaw any, host mcp.Host) record {
	existing := existingRecord(existingRaw)
	if canonical == nil {
		existing.timeout = timeoutMillis(existing.timeout)
		return existing
	}

	c := mcp.NormalizeServer(canonical)
	cCommand, cArgs := unwrapShell(c.Command, c.Args)
	eCommand, eArgs := unwrapShell(existing.command, existing.args)

	command := firstNonEmpty(cCommand, eCommand, defaultCommand)
	args := cArgs
	if len(args) == 0 && cCommand == "" {
		args = eArgs
	}
	args = ensureNonInteractive(command, args)

	envServer := existing.env.WithEnv(mcp.MergeEnv(existing.env, c))
	if host.IsWindows() {
		args = append([]string{"/c", command}, args...)
		command = "cmd"
		for _, kv := range [][2]string{{"SystemRoot", `C:\Windows`}, {"PROGRAMFILES", `C:\Program Files`}} {
			if _, ok := envServer.Env[kv[0]]; !ok {
				envServer.SetEnv(kv[0], host.Getenv(kv[0], kv[1]))
			}
		}
	}

	extra := mcp.MergeExtra(existing.extra, c.Extra)
	timeout := existing.timeout
	if v, ok := extra.Get(keyStartupTimeout); ok {
		if _, numeric := ordered.Number(v); numeric {
			timeout = v
		}
	}
	extra.Delete(keyStartupTimeout)

	if c.Cwd != "" {
		extra.Set(mcp.FieldCwd, c.Cwd)
	}
	for _, f := range []struct{ key, value string }{
		{mcp.FieldType, c.Type},
		{mcp.FieldTransport, c.Transport},
		{mcp.FieldDescription, c.Description},
	} {
		if f.value != "" && extra.Has(f.key) {
			extra.Set(f.key, f.value)
		}
	}

	return record{
		command: command,
		args:    args,
		env:     envServer,
		timeout: timeoutMillis(timeout),
		extra:   extra,
	}
}

// ensureNonInteractive prepends -y to npx invocations that lack it.
func ensureNonInteractive(command string, args []string) []string {
	if command != defaultCommand || slices.Contains(args, "-y") {
		return slices.Clone(args)
	}
	return append([]string{"-y"}, args...)
}

// serverOrder lists ids in original file order, then canonical-only ids,
// then any remaining existing ids. Each id appears once.
func serverOrder(original []string, cfg *mcp.Config, existing *ordered.Map) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, id := range original {
		if _, ok := cfg.Get(id); ok || existing.Has(id) {
			add(id)
		}
	}
	for _, id := range cfg.IDs() {
		add(id)
	}
	for _, id := range existing.Keys() {
		add(id)
	}
	return out
}

func getString(m *ordered.Map, key string) (string, bool) {
	v, _ := m.Get(key)
	s, ok := v.(string)
	return s, ok
}

func getMap(m *ordered.Map, key string) (*ordered.Map, bool) {
	v, _ := m.Get(key)
	child, ok := v.(*ordered.Map)
	return child, ok && child != nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// timeoutMillis turns a startup timeout into the whole number of
// milliseconds Codex expects, rounding halves up. A missing or non-numeric
// value yields DefaultStartupTimeout.
func timeoutMillis(v any) int64 {
	switch n := ordered.Scalar(v).(type) {
	case int64:
		return n
	case int:
		return int64(n)
	}
	f, ok := ordered.Number(v)
	if !ok {
		return DefaultStartupTimeout
	}
	return int64(math.Floor(f + 0.5))
}
