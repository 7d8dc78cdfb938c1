package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/ui/components"
	"github.com/templui/microblog/internal/ui/layouts"
)

type UserProps struct {
	User     *model.User
	AboutMe  string // rendered HTML
	IsSelf   bool
	Timeline Timeline
}

func User(p UserProps) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b builder
		b.WriteString(`<section class="mb-6 flex gap-4">`)
		err := b.render(ctx, w, components.Avatar(p.User, 128))
		if err != nil {
			return err
		}

		b.printf(`<div><h1 class="text-2xl font-bold">User: %s</h1>`, p.User.Nickname)
		if p.AboutMe != "" {
			b.WriteString(`<div class="prose text-sm">` + p.AboutMe + `</div>`)
		}
		if p.User.LastSeen != nil {
			b.printf(`<p class="text-xs text-gray-500">Last seen on: %s</p>`, p.User.LastSeen.UTC().Format("Jan 2, 2006 15:04 UTC"))
		}
		if p.IsSelf {
			b.WriteString(`<p class="text-sm"><a href="/edit">Edit</a></p>`)
		}
		b.WriteString(`</div></section>`)

		err = b.flush(w)
		if err != nil {
			return err
		}
		return timeline(ctx, w, components.ProfileURL(p.User.Nickname), p.Timeline)
	})

	return layouts.Base(p.User.Nickname, content)
}
