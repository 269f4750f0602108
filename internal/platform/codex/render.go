package codex

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/thoreinstein/syncmcp/pkg/ordered"
)

// renderSection writes one [mcp_servers.<id>] table without a trailing newline.
func renderSection(id string, rec record) string {
	lines := []string{
		fmt.Sprintf("[%s.%s]", serversTable, formatKey(id)),
		"command = " + quote(rec.command),
	}

	if len(rec.args) == 0 {
		lines = append(lines, "args = []")
	} else {
		lines = append(lines, "args = [")
		for i, a := range rec.args {
			suffix := ","
			if i == len(rec.args)-1 {
				suffix = ""
			}
			lines = append(lines, "  "+quote(a)+suffix)
		}
		lines = append(lines, "]")
	}

	keys := rec.env.EnvKeys()
	if len(keys) == 0 {
		lines = append(lines, "env = {}")
	} else {
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = formatKey(k) + "=" + quote(rec.env.Env[k])
		}
		lines = append(lines, "env = { "+strings.Join(pairs, ", ")+" }")
	}

	lines = append(lines, keyStartupTimeout+" = "+formatNumber(rec.timeout))

	for k, v := range rec.extra.All() {
		if v == nil {
			continue
		}
		lines = append(lines, formatKey(k)+" = "+formatValue(v))
	}
	return strings.Join(lines, "\n")
}

// formatValue renders a value inline. Tables use the compact key=value
// style of the env line.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int64, int, float64, json.Number:
		return formatNumber(val)
	case []string:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = quote(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = formatValue(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		return formatValue(ordered.FromMap(val))
	case *ordered.Map:
		var pairs []string
		for k, item := range val.All() {
			if item == nil {
				continue
			}
			pairs = append(pairs, formatKey(k)+"="+formatValue(item))
		}
		if len(pairs) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(pairs, ", ") + " }"
	case nil:
		return `""`
	default:
		return quote(ordered.String(val))
	}
}

// formatNumber renders a number with "_" thousands separators. Integral
// floats are written as integers.
func formatNumber(v any) string {
	switch val := ordered.Scalar(v).(type) {
	case int64:
		return groupDigits(strconv.FormatInt(val, 10))
	case int:
		return groupDigits(strconv.Itoa(val))
	case float64:
		switch {
		case math.IsNaN(val):
			return "nan"
		case math.IsInf(val, 1):
			return "inf"
		case math.IsInf(val, -1):
			return "-inf"
		case val == math.Trunc(val) && math.Abs(val) < 1e15:
			return groupDigits(strconv.FormatInt(int64(val), 10))
		case val == math.Trunc(val):
			return strconv.FormatFloat(val, 'e', -1, 64)
		default:
			return strconv.FormatFloat(val, 'f', -1, 64)
		}
	default:
		return groupDigits(strconv.FormatInt(DefaultStartupTimeout, 10))
	}
}

func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatKey leaves bare keys alone and quotes anything else.
func formatKey(k string) string {
	if k == "" {
		return `""`
	}
	for _, r := range k {
		if !isBareKeyRune(r) {
			return quote(k)
		}
	}
	return k
}
