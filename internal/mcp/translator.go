package mcp

// Family identifies the adapter family that produced a [Meta].
type Family string

// Adapter families.
const (
	FamilyJSON Family = "json"
	FamilyTOML Family = "toml"
)

// Meta carries the parts of a tool's file that the canonical model does not
// represent: surrounding document content, existing server records, and the
// original server order. A Meta is only meaningful to the adapter family
// that produced it.
type Meta interface {
	// Family returns the adapter family that produced the metadata.
	Family() Family
}

// Result is the output of parsing a tool's configuration file.
type Result struct {
	// Config is the canonical server set found in the file.
	Config *Config

	// Meta preserves everything needed to rewrite the file with minimal
	// disturbance. Never nil on success.
	Meta Meta
}

// FormatOptions controls how a canonical config is rendered for a tool.
type FormatOptions struct {
	// Meta is the metadata returned when the destination file was parsed.
	// Nil produces a fresh document.
	Meta Meta

	// Host describes the machine the output is written for. The zero value
	// is treated as a non-Windows host with an empty environment.
	Host Host
}

// Translator converts between a tool's configuration text and the
// canonical model.
//
// Parse and Format are pure: they perform no I/O and never mutate their
// inputs, so one Translator may be shared across goroutines.
//
// When reading a tool's file:
//
//	raw -> Translator.Parse() -> *Result
//
// When writing back:
//
//	*Config + Meta -> Translator.Format() -> text
//
// Formatting with the Meta of the file being overwritten keeps every
// non-server setting and every field no adapter recognizes.
type Translator interface {
	// Tool returns the tool identifier this translator handles.
	Tool() string

	// Parse decodes raw file text into canonical form.
	Parse(raw string) (*Result, error)

	// Format renders cfg as the tool's file text.
	Format(cfg *Config, opts FormatOptions) (string, error)
}
