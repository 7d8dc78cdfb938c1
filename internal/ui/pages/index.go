package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/ui/components"
	"github.com/templui/microblog/internal/ui/layouts"
)

// Timeline is one page of posts.
type Timeline struct {
	Posts   []*model.Post
	Page    int
	HasPrev bool
	HasNext bool
}

type IndexProps struct {
	User     *model.User
	Timeline Timeline
	Body     string
	Error    string
}

func Index(p IndexProps) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b builder
		b.printf(`<h1 class="mb-4 text-2xl font-bold">Hi, %s!</h1>`, p.User.Nickname)

		b.WriteString(`<form action="/index" method="post" name="post" class="mb-6">`)
		csrfField(ctx, &b)
		err := b.render(ctx, w, components.Field(components.FieldProps{
			Name:      "body",
			Label:     "Say something:",
			Type:      components.FieldTypeTextarea,
			Value:     p.Body,
			Error:     p.Error,
			MaxLength: model.PostBodyMaxLength,
		}))
		if err != nil {
			return err
		}
		b.printf(`<button type="submit" class="%s">Post!</button></form>`, buttonClass)

		err = b.flush(w)
		if err != nil {
			return err
		}
		return timeline(ctx, w, "/index", p.Timeline)
	})

	return layouts.Base("Home", content)
}

func timeline(ctx context.Context, w io.Writer, basePath string, t Timeline) error {
	if len(t.Posts) == 0 {
		_, err := io.WriteString(w, `<p class="text-sm text-gray-500">No posts yet.</p>`)
		return err
	}

	for _, post := range t.Posts {
		err := components.Post(post).Render(ctx, w)
		if err != nil {
			return err
		}
	}

	return components.Pager(basePath, t.Page, t.HasPrev, t.HasNext).Render(ctx, w)
}
