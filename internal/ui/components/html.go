package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// builder accumulates markup and writes it out in one go.
type builder struct {
	strings.Builder
}

// text writes s HTML-escaped.
func (b *builder) text(s string) {
	b.WriteString(templ.EscapeString(s))
}

// printf writes format with every argument HTML-escaped.
func (b *builder) printf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, arg := range args {
		escaped[i] = templ.EscapeString(fmt.Sprint(arg))
	}
	fmt.Fprintf(b, format, escaped...)
}

// flush writes the buffered markup to w and resets the buffer.
func (b *builder) flush(w io.Writer) error {
	_, err := io.WriteString(w, b.String())
	b.Reset()
	return err
}

// render flushes the buffer, then renders c.
func (b *builder) render(ctx context.Context, w io.Writer, c templ.Component) error {
	err := b.flush(w)
	if err != nil {
		return err
	}
	return c.Render(ctx, w)
}

// Group renders components one after another.
func Group(cs ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range cs {
			if c == nil {
				continue
			}
			err := c.Render(ctx, w)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
