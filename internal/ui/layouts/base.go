package layouts

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/microblog/internal/ctxkeys"
	"github.com/templui/microblog/internal/ui/components"
)

func appName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return "Microblog"
}

// Base is the page shell: head, navigation, flash messages, content.
// An empty title yields the welcome title.
func Base(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := appName(ctx)
		nonce := templ.GetNonce(ctx)

		pageTitle := "Welcome to " + name
		if title != "" {
			pageTitle = title + " - " + name
		}

		e := templ.EscapeString[string]
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="csrf-token" content="%s">
<title>%s</title>
<script nonce="%s" src="https://cdn.tailwindcss.com"></script>
</head>
<body class="mx-auto max-w-2xl p-6 text-gray-900">
<header class="mb-6 flex items-center gap-4 border-b border-gray-200 pb-3 text-sm">
<span class="font-bold">%s:</span>
`, e(ctxkeys.CSRFToken(ctx)), e(pageTitle), e(nonce), e(name))
		if err != nil {
			return err
		}

		current := ctxkeys.URLPath(ctx)
		link := func(href, label string) string {
			class := "text-gray-600 hover:text-gray-900"
			if href == current {
				class = "font-semibold text-gray-900"
			}
			return fmt.Sprintf(`<a href="%s" class="%s">%s</a>
`, e(href), class, e(label))
		}

		nav := link("/index", "Home")
		if user := ctxkeys.User(ctx); user != nil {
			nav += link(components.ProfileURL(user.Nickname), "Your Profile") + link("/logout", "Logout")
		} else {
			nav += link("/login", "Login")
		}
		_, err = io.WriteString(w, nav)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, "</header>\n<main>\n")
		if err != nil {
			return err
		}

		err = components.Flashes(ctxkeys.Flashes(ctx)).Render(ctx, w)
		if err != nil {
			return err
		}

		err = content.Render(ctx, w)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}
