package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Message renders a short result fragment followed by a single link,
// used as the response to form submissions.
func Message(text string, isError bool, href, linkText string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		open := `<p>`
		if isError {
			open = `<p style="color:red;">`
		}
		_, err := io.WriteString(w, open+templ.EscapeString(text)+`</p><a href="`+
			templ.EscapeString(href)+`">`+templ.EscapeString(linkText)+`</a>`)
		return err
	})
}
