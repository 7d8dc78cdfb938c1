package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/ui/layouts"
)

type ProviderOption struct {
	Name        string
	DisplayName string
}

type LoginProps struct {
	Providers []ProviderOption
	Selected  string
	Remember  bool
	Next      string
	Error     string
}

func Login(p LoginProps) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b builder
		b.WriteString(`<h1 class="mb-4 text-2xl font-bold">Sign In</h1>`)

		if len(p.Providers) == 0 {
			b.WriteString(`<p>No identity providers are configured.</p>`)
			return b.flush(w)
		}

		b.WriteString(`<form action="/login" method="post" name="login">`)
		csrfField(ctx, &b)
		b.printf(`<input type="hidden" name="next" value="%s">`, p.Next)

		b.WriteString(`<fieldset class="mb-4"><legend class="mb-2 text-sm font-medium">Sign in with:</legend>`)
		for i, provider := range p.Providers {
			checked := ""
			if provider.Name == p.Selected || (p.Selected == "" && i == 0) {
				checked = " checked"
			}
			b.printf(`<label class="mr-4 text-sm"><input type="radio" name="provider" value="%s"`, provider.Name)
			b.WriteString(checked)
			b.printf(`> %s</label>`, provider.DisplayName)
		}
		if p.Error != "" {
			b.printf(`<p class="mt-1 text-sm text-red-600">[%s]</p>`, p.Error)
		}
		b.WriteString(`</fieldset>`)

		remember := ""
		if p.Remember {
			remember = " checked"
		}
		b.WriteString(`<p class="mb-4 text-sm"><label><input type="checkbox" name="remember_me" value="y"` + remember + `> Remember Me</label></p>`)
		b.printf(`<button type="submit" class="%s">Sign In</button>`, buttonClass)
		b.WriteString(`</form>`)

		return b.flush(w)
	})

	return layouts.Base("Sign In", content)
}
