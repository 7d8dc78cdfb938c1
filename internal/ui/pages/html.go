package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/ctxkeys"
)

type builder struct {
	strings.Builder
}

func (b *builder) printf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, arg := range args {
		escaped[i] = templ.EscapeString(fmt.Sprint(arg))
	}
	fmt.Fprintf(b, format, escaped...)
}

func (b *builder) flush(w io.Writer) error {
	_, err := io.WriteString(w, b.String())
	b.Reset()
	return err
}

func (b *builder) render(ctx context.Context, w io.Writer, c templ.Component) error {
	err := b.flush(w)
	if err != nil {
		return err
	}
	return c.Render(ctx, w)
}

// csrfField is the hidden form input checked by the CSRF middleware.
func csrfField(ctx context.Context, b *builder) {
	b.printf(`<input type="hidden" name="csrf_token" value="%s">`, ctxkeys.CSRFToken(ctx))
}

const buttonClass = "rounded-md bg-gray-900 px-4 py-2 text-sm font-medium text-white"
