package renderer

import (
	"github.com/unrolled/render"
)

// New returns the JSON renderer shared by handlers. Development output is
// indented for readability.
func New(development bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    development,
		IsDevelopment: development,
		UnEscapeHTML:  true,
	})
}
