package jsonconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// Meta preserves the parts of a JSON document outside the canonical model.
type Meta struct {
	// ServersKey is the key the server map was read from.
	ServersKey string

	// Rest is the whole document minus the servers key.
	Rest *ordered.Map

	// ExistingServers is the raw, unnormalized server map as read,
	// including entries that were not objects.
	ExistingServers *ordered.Map

	// Order is the original server key sequence.
	Order []string

	// serversIndex is the position of the servers key among the root keys,
	// or -1 when the document had none.
	serversIndex int
}

// Family implements [mcp.Meta].
func (m *Meta) Family() mcp.Family {
	return mcp.FamilyJSON
}

// Translator converts between a JSON tool's configuration and the
// canonical model.
//
// Documents look like:
//
//	{
//	  "mcpServers": {
//	    "github": {"command": "npx", "args": ["-y", "server-github"], "env": {}}
//	  }
//	}
//
// Named fields (command, args, env, type, transport, cwd, description) map
// onto [mcp.Server]; every other server key is carried in Extra.
type Translator struct {
	profile Profile
}

var _ mcp.Translator = (*Translator)(nil)

// NewTranslator returns a translator for a JSON-based tool.
func NewTranslator(tool string) (*Translator, error) {
	p, ok := LookupProfile(tool)
	if !ok {
		return nil, &mcp.UnsupportedToolError{Tool: tool, Op: "json"}
	}
	return &Translator{profile: p}, nil
}

// Tool returns the tool identifier.
func (t *Translator) Tool() string {
	return t.profile.Tool
}

// Profile returns the tool's conventions.
func (t *Translator) Profile() Profile {
	return t.profile
}

// Parse implements [mcp.Translator].
func (t *Translator) Parse(raw string) (*mcp.Result, error) {
	cfg, meta, err := t.ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	return &mcp.Result{Config: cfg, Meta: meta}, nil
}

// ParseDocument decodes a JSON document into canonical servers and the
// metadata needed to rewrite it.
//
// Server entries that are not objects are skipped on the canonical side
// but kept in Meta.ExistingServers.
func (t *Translator) ParseDocument(raw string) (*mcp.Config, *Meta, error) {
	tool, key := t.profile.Tool, t.profile.ServersKey

	doc, err := decode(raw)
	if err != nil {
		return nil, nil, &mcp.ParseError{Tool: tool, Fragment: fragment(raw), Err: err}
	}

	var root *ordered.Map
	switch v := doc.(type) {
	case nil:
		root = ordered.New()
	case *ordered.Map:
		root = v
	default:
		return nil, nil, mcp.NewStructuralError(tool, "document root must be an object")
	}

	meta := &Meta{
		ServersKey:      key,
		Rest:            ordered.New(),
		ExistingServers: ordered.New(),
		serversIndex:    -1,
	}
	for i, k := range root.Keys() {
		v, _ := root.Get(k)
		if k == key {
			meta.serversIndex = i
			continue
		}
		meta.Rest.Set(k, ordered.Clone(v))
	}

	cfg := mcp.NewConfig()
	section, _ := root.Get(key)
	if isFalsy(section) {
		return cfg, meta, nil
	}
	servers, ok := section.(*ordered.Map)
	if !ok {
		return nil, nil, mcp.NewStructuralError(tool, fmt.Sprintf("%q must be an object", key))
	}

	meta.ExistingServers = servers.Clone()
	meta.Order = servers.Keys()
	for id, entry := range servers.All() {
		m, ok := entry.(*ordered.Map)
		if !ok {
			continue
		}
		cfg.Set(id, fromJSONServer(m))
	}
	return cfg, meta, nil
}

// Format implements [mcp.Translator]. The host is ignored; JSON tools have
// no platform-specific output.
func (t *Translator) Format(cfg *mcp.Config, opts mcp.FormatOptions) (string, error) {
	var meta *Meta
	if opts.Meta != nil {
		m, ok := opts.Meta.(*Meta)
		if !ok {
			return "", &mcp.FormatError{Tool: t.profile.Tool, Err: mcp.ErrMetaMismatch}
		}
		meta = m
	}
	return t.FormatDocument(cfg, meta)
}

// FormatDocument renders cfg as a JSON document. With a non-nil meta the
// rest of the original document and destination-only servers are kept;
// meta is never modified.
func (t *Translator) FormatDocument(cfg *mcp.Config, meta *Meta) (string, error) {
	cfg = mcp.EnsureCanonical(cfg)

	rest, existing, index := ordered.New(), ordered.New(), -1
	if meta != nil {
		if meta.Rest != nil {
			rest = meta.Rest.Clone()
		}
		if meta.ExistingServers != nil {
			existing = meta.ExistingServers.Clone()
		}
		index = meta.serversIndex
	}

	servers := ordered.New()
	servers.Merge(existing)
	for _, id := range cfg.IDs() {
		server, _ := cfg.Get(id)
		prev, _ := existing.Get(id)
		servers.Set(id, buildServer(t.profile, server, prev))
	}

	doc := ordered.New()
	for i, k := range rest.Keys() {
		if i == index {
			doc.Set(t.profile.ServersKey, servers)
		}
		v, _ := rest.Get(k)
		doc.Set(k, v)
	}
	doc.Set(t.profile.ServersKey, servers)

	out, err := encode(doc)
	if err != nil {
		return "", &mcp.FormatError{Tool: t.profile.Tool, Err: err}
	}
	return out, nil
}

// fromJSONServer pulls the named fields out of a raw server object and
// normalizes it. Named fields of the wrong type are dropped.
func fromJSONServer(raw *ordered.Map) *mcp.Server {
	s := &mcp.Server{Extra: ordered.New()}
	str := func(key string) string {
		v, _ := raw.Get(key)
		out, _ := v.(string)
		return out
	}

	s.Command = str(mcp.FieldCommand)
	if v, ok := raw.Get(mcp.FieldArgs); ok {
		if list, ok := v.([]any); ok {
			s.Args = mcp.StringSlice(list)
		}
	}
	if v, ok := raw.Get(mcp.FieldEnv); ok {
		env, keys := mcp.NormalizeEnv(v)
		s = s.WithEnv(env, keys)
	}
	s.Type = str(mcp.FieldType)
	s.Transport = str(mcp.FieldTransport)
	s.Cwd = str(mcp.FieldCwd)
	s.Description = str(mcp.FieldDescription)

	for k, v := range raw.All() {
		if !mcp.IsNamedField(k) {
			s.Extra.Set(k, ordered.Clone(v))
		}
	}
	return mcp.NormalizeServer(s)
}

// buildServer merges a canonical server over the existing destination
// record, applying the tool's field rules. Fields are emitted in a fixed
// order followed by extras.
func buildServer(p Profile, canonical *mcp.Server, existingRaw any) *ordered.Map {
	c := mcp.NormalizeServer(canonical)
	e := mcp.NormalizeServer(nil)
	if m, ok := existingRaw.(*ordered.Map); ok {
		e = fromJSONServer(m)
	}

	out := ordered.New()
	if v := firstNonEmpty(c.Command, e.Command); v != "" {
		out.Set(mcp.FieldCommand, v)
	}
	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		args[i] = a
	}
	out.Set(mcp.FieldArgs, args)
	if v := firstNonEmpty(c.Cwd, e.Cwd); v != "" {
		out.Set(mcp.FieldCwd, v)
	}
	if v := firstNonEmpty(c.Transport, e.Transport); v != "" && !p.SuppressTransport {
		out.Set(mcp.FieldTransport, v)
	}
	if v := firstNonEmpty(c.Description, e.Description); v != "" {
		out.Set(mcp.FieldDescription, v)
	}
	// Only tools with a default type keep the destination's type; elsewhere
	// a stale type would override what the new command speaks.
	typ := c.Type
	if p.DefaultType != "" {
		typ = firstNonEmpty(c.Type, e.Type, p.DefaultType)
	}
	if typ != "" {
		out.Set(mcp.FieldType, typ)
	}

	env, keys := mcp.MergeEnv(e, c)
	if len(env) > 0 || !p.OmitEmptyEnv {
		envMap := ordered.New()
		for _, k := range keys {
			envMap.Set(k, env[k])
		}
		out.Set(mcp.FieldEnv, envMap)
	}

	for k, v := range mcp.MergeExtra(e.Extra, c.Extra).All() {
		if extraBlacklist[k] || out.Has(k) {
			continue
		}
		out.Set(k, v)
	}
	return out
}

func encode(doc *ordered.Map) (string, error) {
	compact, err := doc.MarshalJSON()
	if err != nil {
		return "", errors.Wrap(err, "encoding document")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return "", errors.Wrap(err, "indenting document")
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// isFalsy reports whether a servers section value counts as absent.
func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case json.Number:
		n, ok := ordered.Number(val)
		return ok && n == 0
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// fragment returns the head of raw for error messages.
func fragment(raw string) string {
	const limit = 40
	if len(raw) <= limit {
		return raw
	}
	return raw[:limit] + "..."
}
