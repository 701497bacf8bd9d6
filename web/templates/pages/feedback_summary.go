package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/aimarketer/aimarketer/web/templates/components"
)

const summaryHead = `<!DOCTYPE html>
<html><head>
<meta charset="utf-8">
<link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css" rel="stylesheet">
<title>Feedback Summary</title>
</head><body class="container mt-5">
<h2>Feedback Summary</h2>
`

// FeedbackSummary renders the admin feedback table. Every cell is escaped.
// avatarURL may be nil; when it returns a URL, the avatar is shown next to the name.
func FeedbackSummary(items []database.Feedback, avatarURL func(email string) string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(summaryHead)

		if len(items) == 0 {
			b.WriteString(`<p>No feedback submitted yet.</p>`)
		} else {
			b.WriteString(`<table class="table table-bordered">`)
			b.WriteString(`<thead><tr><th>Name</th><th>Email</th><th>Phone</th><th>Query</th><th>Submitted</th></tr></thead><tbody>`)
			for _, item := range items {
				b.WriteString(`<tr><td>`)
				if avatarURL != nil {
					if src := avatarURL(item.Email); src != "" {
						b.WriteString(`<img class="rounded-circle me-2" alt="" src="`)
						b.WriteString(templ.EscapeString(src))
						b.WriteString(`">`)
					}
				}
				b.WriteString(templ.EscapeString(item.Name))
				b.WriteString(`</td>`)
				for _, cell := range []string{item.Email, item.Phone, item.Query} {
					b.WriteString(`<td>`)
					b.WriteString(templ.EscapeString(cell))
					b.WriteString(`</td>`)
				}
				b.WriteString(`<td>`)
				if !item.CreatedAt.IsZero() {
					b.WriteString(templ.EscapeString(components.FormatRelativeTime(item.CreatedAt)))
				}
				b.WriteString(`</td></tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}

		b.WriteString(`<a href="/" class="btn btn-secondary">Back to Home</a></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
