package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/ui/layouts"
)

func NotFound() templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1 class="mb-4 text-2xl font-bold">File Not Found</h1>
<p><a href="/index">Back</a></p>`)
		return err
	})
	return layouts.Base("Not Found", content)
}

func ServerError() templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1 class="mb-4 text-2xl font-bold">An unexpected error has occurred</h1>
<p>The administrator has been notified. Sorry for the inconvenience!</p>
<p><a href="/index">Back</a></p>`)
		return err
	})
	return layouts.Base("Error", content)
}
