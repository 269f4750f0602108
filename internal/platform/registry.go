package platform

import (
	"sync"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/mcp"
	"github.com/thoreinstein/syncmcp/internal/platform/codex"
	"github.com/thoreinstein/syncmcp/internal/platform/jsonconfig"
)

// Sentinel errors for registry operations.
var (
	// ErrTranslatorAlreadyRegistered is returned when attempting to register
	// a translator for a tool that already has one.
	ErrTranslatorAlreadyRegistered = errors.New("translator already registered")

	// ErrInvalidToolName is returned when attempting to register a
	// translator for a tool missing from the catalog.
	ErrInvalidToolName = errors.New("invalid tool name")
)

// Registry maps tool identifiers to their translators.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	translators map[string]mcp.Translator
}

// NewRegistry creates a new empty translator registry.
func NewRegistry() *Registry {
	return &Registry{
		translators: make(map[string]mcp.Translator),
	}
}

// Register adds a translator under its Tool() identifier.
// Returns an error if:
//   - The tool is not in the catalog (per ValidTool)
//   - A translator for the same tool is already registered
func (r *Registry) Register(t mcp.Translator) error {
	if t == nil || !ValidTool(t.Tool()) {
		return ErrInvalidToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.translators[t.Tool()]; exists {
		return ErrTranslatorAlreadyRegistered
	}

	r.translators[t.Tool()] = t
	return nil
}

// Get returns the translator registered for tool.
func (r *Registry) Get(tool string) (mcp.Translator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.translators[tool]
	return t, ok
}

// All returns the registered tool identifiers in catalog order.
func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.translators) == 0 {
		return nil
	}

	results := make([]string, 0, len(r.translators))
	for _, id := range SupportedTools() {
		if _, registered := r.translators[id]; registered {
			results = append(results, id)
		}
	}
	return results
}

// Parse decodes raw as the configuration text of tool.
func (r *Registry) Parse(tool, raw string) (*mcp.Result, error) {
	t, ok := r.Get(tool)
	if !ok {
		return nil, &mcp.ParseError{
			Tool: tool,
			Err:  &mcp.UnsupportedToolError{Tool: tool, Op: "parse"},
		}
	}
	return t.Parse(raw)
}

// Format renders cfg as the configuration text of tool.
func (r *Registry) Format(tool string, cfg *mcp.Config, opts ...FormatOption) (string, error) {
	t, ok := r.Get(tool)
	if !ok {
		return "", &mcp.FormatError{
			Tool: tool,
			Err:  &mcp.UnsupportedToolError{Tool: tool, Op: "format"},
		}
	}

	var o mcp.FormatOptions
	for _, opt := range opts {
		opt(&o)
	}
	return t.Format(cfg, o)
}

// FormatOption configures a Format call.
type FormatOption func(*mcp.FormatOptions)

// WithMeta threads the metadata of the destination file into Format so
// its non-server content and unknown fields survive.
func WithMeta(meta mcp.Meta) FormatOption {
	return func(o *mcp.FormatOptions) {
		o.Meta = meta
	}
}

// WithHost sets the machine the output is written for.
func WithHost(host mcp.Host) FormatOption {
	return func(o *mcp.FormatOptions) {
		o.Host = host
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	if err := r.Register(codex.NewTranslator()); err != nil {
		panic(err)
	}
	for _, id := range jsonconfig.Tools() {
		t, err := jsonconfig.NewTranslator(id)
		if err != nil {
			panic(err)
		}
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
})

// DefaultRegistry returns the registry holding a translator for every
// catalog tool.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Parse decodes raw as the configuration text of tool using the default
// registry. An unknown tool fails with a [*mcp.ParseError] that also
// matches [mcp.ErrUnsupportedTool].
func Parse(tool, raw string) (*mcp.Result, error) {
	return DefaultRegistry().Parse(tool, raw)
}

// Format renders cfg for tool using the default registry. An unknown tool
// fails with a [*mcp.FormatError] that also matches
// [mcp.ErrUnsupportedTool].
func Format(tool string, cfg *mcp.Config, opts ...FormatOption) (string, error) {
	return DefaultRegistry().Format(tool, cfg, opts...)
}
