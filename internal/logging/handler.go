package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the styles of the text handler. A nil palette prints plain
// text.
type palette struct {
	time  *color.Color
	key   *color.Color
	level map[slog.Level]*color.Color
}

func newPalette() *palette {
	return &palette{
		time: color.New(color.FgHiBlack),
		key:  color.New(color.FgCyan),
		level: map[slog.Level]*color.Color{
			LevelTrace:      color.New(color.FgHiBlack),
			slog.LevelDebug: color.New(color.FgMagenta),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
}

// levelColor returns the style of the nearest level at or below l.
func (p *palette) levelColor(l slog.Level) *color.Color {
	for _, step := range []slog.Level{slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug} {
		if l >= step {
			return p.level[step]
		}
	}
	return p.level[LevelTrace]
}

// Handler is a slog.Handler that prints one human-readable line per record:
//
//	3:04PM WARN  source server issue tool=cursor problem=...
//
// Attribute values that look like credentials are masked.
type Handler struct {
	level  slog.Leveler
	out    io.Writer
	mu     *sync.Mutex
	colors *palette

	// prefix holds attributes from WithAttrs, already rendered.
	prefix []byte
	groups []string
}

// NewHandler creates a text handler writing to out. Colors are used only
// when out is a color-capable terminal.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{
		level: slog.LevelInfo,
		out:   out,
		mu:    &sync.Mutex{},
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r as a single line.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(h.timeColor(), r.Time.Format(time.Kitchen)))
		buf.WriteByte(' ')
	}

	name := fmt.Sprintf("%-5s", levelName(r.Level))
	if h.colors != nil {
		name = h.colors.levelColor(r.Level).Sprint(name)
	}
	buf.WriteString(name)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.groups, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

// WithAttrs returns a Handler that prints attrs on every line, qualified by
// the current groups.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	buf := bytes.NewBuffer(slices.Clone(h.prefix))
	for _, a := range attrs {
		h.appendAttr(buf, h.groups, a)
	}
	out.prefix = buf.Bytes()
	return &out
}

// WithGroup returns a Handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.groups = append(slices.Clone(h.groups), name)
	return &out
}

func (h *Handler) appendAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(slices.Clone(groups), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, sub, ga)
		}
		return
	}

	key := strings.Join(append(slices.Clone(groups), a.Key), ".")
	value := fmt.Sprint(a.Value.Any())
	switch {
	case secretKey(a.Key):
		value = Mask(value)
	case a.Value.Kind() == slog.KindString:
		value = Redact(a.Key, value)
	}
	fmt.Fprintf(buf, " %s=%s", h.paint(h.keyColor(), key), value)
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) keyColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.key
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// levelName labels LevelTrace as TRACE instead of DEBUG-4.
func levelName(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}
