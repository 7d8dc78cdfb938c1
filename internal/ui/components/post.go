package components

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/model"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

// ProfileURL is the path of nickname's profile page.
func ProfileURL(nickname string) string {
	return "/user/" + url.PathEscape(nickname)
}

// Avatar renders the user's Gravatar image.
func Avatar(u *model.User, size int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b builder
		b.printf(`<img src="%s" width="%s" height="%s" alt="%s" class="rounded">`,
			u.Avatar(size), size, size, u.Nickname)
		return b.flush(w)
	})
}

// Post renders one timeline entry. BodyHTML comes from the markdown
// renderer, which drops raw HTML; without it the body is shown escaped.
func Post(p *model.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b builder
		b.WriteString(`<article class="flex gap-3 border-b border-gray-200 py-3">`)

		if p.Author != nil {
			err := b.render(ctx, w, Avatar(p.Author, 36))
			if err != nil {
				return err
			}
		}

		b.WriteString(`<div class="text-sm">`)
		if p.Author != nil {
			b.printf(`<p><a href="%s" class="font-semibold">%s</a> says:</p>`, ProfileURL(p.Author.Nickname), p.Author.Nickname)
		}

		b.WriteString(`<div class="prose">`)
		if p.BodyHTML != "" {
			b.WriteString(p.BodyHTML)
		} else {
			b.text(p.Body)
		}
		b.WriteString(`</div>`)
		b.printf(`<time class="text-xs text-gray-500" datetime="%s">%s</time>`,
			p.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), p.Timestamp.UTC().Format("Jan 2, 2006 15:04 UTC"))
		b.WriteString(`</div></article>`)

		return b.flush(w)
	})
}

// Pager links to the neighbouring pages of a paginated list at basePath.
func Pager(basePath string, page int, hasPrev, hasNext bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !hasPrev && !hasNext {
			return nil
		}

		var b builder
		b.WriteString(`<nav class="mt-4 flex justify-between text-sm">`)
		if hasPrev {
			b.printf(`<a href="%s?page=%s">&larr; Newer posts</a>`, basePath, page-1)
		} else {
			b.WriteString(`<span></span>`)
		}
		if hasNext {
			b.printf(`<a href="%s?page=%s">Older posts &rarr;</a>`, basePath, page+1)
		}
		b.WriteString(`</nav>`)
		return b.flush(w)
	})
}

// Flashes renders pending one-shot messages.
func Flashes(messages []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(messages) == 0 {
			return nil
		}

		var b builder
		b.WriteString(`<ul class="mb-4 rounded-md bg-blue-50 p-3 text-sm text-blue-800">`)
		for _, msg := range messages {
			b.printf(`<li>%s</li>`, msg)
		}
		b.WriteString(`</ul>`)
		return b.flush(w)
	})
}
