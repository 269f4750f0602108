// Package ordered provides an insertion-ordered string-keyed map used to
// carry loosely-typed configuration documents without losing key order.
//
// Configuration files edited by people have a meaningful key order: servers
// appear in the order the user wrote them, and unknown settings sit where the
// user put them. Go maps do not remember that order, so every document tree
// that must be re-serialized uses [Map] for objects instead.
//
// # Value Model
//
// Values stored in a [Map] are one of:
//
//   - nil
//   - bool
//   - string
//   - int64, float64 or [encoding/json.Number]
//   - []any
//   - *Map
//
// [Clone] deep-copies any such tree so callers can mutate a copy without
// affecting the original:
//
//	doc := ordered.New()
//	doc.Set("mcpServers", ordered.New())
//	cp := ordered.Clone(doc).(*ordered.Map)
//
// # Serialization
//
// [Map] implements [encoding/json.Marshaler] and the yaml.v3 Marshaler so the
// key order survives encoding. HTML characters are not escaped in JSON output.
package ordered
