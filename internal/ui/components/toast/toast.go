// Package toast renders dismissible notifications swapped into #toast-container.
package toast

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/fittrack/fittrack/internal/ui"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
)

type Props struct {
	Title       string
	Description string
	Variant     Variant
	Dismissible bool
}

var variantClasses = map[Variant]string{
	VariantSuccess: "border-green-600 bg-green-50 text-green-800",
	VariantError:   "border-red-600 bg-red-50 text-red-800",
	VariantInfo:    "border-gray-400 bg-white text-gray-800",
}

var tmpl = template.Must(template.New("toast").Parse(`<div class="{{.Class}}" role="{{.Role}}">
	<p class="font-semibold">{{.Title}}</p>
	{{with .Description}}<p class="text-sm">{{.}}</p>{{end}}
	{{if .Dismissible}}<button type="button" class="absolute right-2 top-1 text-sm" data-dismiss aria-label="Dismiss">&times;</button>{{end}}
</div>`))

func Toast(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		role := "status"
		if p.Variant == VariantError {
			role = "alert"
		}
		return tmpl.Execute(w, struct {
			Props
			Class string
			Role  string
		}{
			Props: p,
			Class: ui.Class("relative w-72 rounded border-l-4 p-3 shadow", variantClasses[p.Variant]),
			Role:  role,
		})
	})
}
