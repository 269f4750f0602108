package jsonconfig

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// decode parses raw JSON into an ordered value tree. Objects become
// *ordered.Map in document order and numbers stay json.Number so integer
// formatting survives a round trip.
func decode(raw string) (any, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New("invalid JSON")
	}
	return fromResult(gjson.Parse(raw)), nil
}

func fromResult(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		out := []any{}
		r.ForEach(func(_, value gjson.Result) bool {
			out = append(out, fromResult(value))
			return true
		})
		return out
	}

	m := ordered.New()
	r.ForEach(func(key, value gjson.Result) bool {
		m.Set(key.Str, fromResult(value))
		return true
	})
	return m
}
