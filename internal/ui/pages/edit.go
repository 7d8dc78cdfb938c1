package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/ui/components"
	"github.com/templui/microblog/internal/ui/layouts"
)

type EditProps struct {
	Nickname string
	AboutMe  string
	Errors   map[string]string
}

func Edit(p EditProps) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b builder
		b.WriteString(`<h1 class="mb-4 text-2xl font-bold">Edit Your Profile</h1>`)
		b.WriteString(`<form action="/edit" method="post" name="edit">`)
		csrfField(ctx, &b)

		err := b.render(ctx, w, components.Group(
			components.Field(components.FieldProps{
				Name:      "nickname",
				Label:     "Your nickname:",
				Value:     p.Nickname,
				Error:     p.Errors["nickname"],
				MaxLength: model.NicknameMaxLength,
			}),
			components.Field(components.FieldProps{
				Name:      "about_me",
				Label:     "About yourself:",
				Type:      components.FieldTypeTextarea,
				Value:     p.AboutMe,
				Error:     p.Errors["about_me"],
				MaxLength: model.AboutMeMaxLength,
			}),
		))
		if err != nil {
			return err
		}

		b.printf(`<button type="submit" class="%s">Save Changes</button></form>`, buttonClass)
		return b.flush(w)
	})

	return layouts.Base("Edit Profile", content)
}
