package components

import (
	"context"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
)

type FieldProps struct {
	ID        string
	Name      string
	Label     string
	Type      FieldType
	Value     string
	Error     string
	MaxLength int
	Class     string
}

// Field renders a labelled form control with its validation message.
func Field(p FieldProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.ID == "" {
			p.ID = p.Name
		}

		class := twmerge.Merge(
			"block w-full rounded-md border border-gray-300 px-3 py-2 text-sm",
			errorClass(p.Error),
			p.Class,
		)

		var b builder
		b.WriteString(`<div class="mb-4">`)
		b.printf(`<label for="%s" class="mb-1 block text-sm font-medium">%s</label>`, p.ID, p.Label)

		maxLength := ""
		if p.MaxLength > 0 {
			maxLength = templ.EscapeString(itoa(p.MaxLength))
		}

		if p.Type == FieldTypeTextarea {
			b.printf(`<textarea id="%s" name="%s" class="%s" rows="3"`, p.ID, p.Name, class)
			if maxLength != "" {
				b.WriteString(` maxlength="` + maxLength + `"`)
			}
			b.WriteString(`>`)
			b.text(p.Value)
			b.WriteString(`</textarea>`)
		} else {
			b.printf(`<input type="text" id="%s" name="%s" value="%s" class="%s"`, p.ID, p.Name, p.Value, class)
			if maxLength != "" {
				b.WriteString(` maxlength="` + maxLength + `"`)
			}
			b.WriteString(`>`)
		}

		if p.Error != "" {
			b.printf(`<p class="mt-1 text-sm text-red-600">[%s]</p>`, p.Error)
		}
		b.WriteString(`</div>`)

		return b.flush(w)
	})
}

func errorClass(msg string) string {
	if msg == "" {
		return ""
	}
	return "border-red-500"
}
