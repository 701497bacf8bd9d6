package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/aimarketer/aimarketer/internal/api/models"
)

// Nav renders the navigation fragment for the current session.
// Anonymous visitors get login and register links, logged in users a welcome
// label, the feedback summary link for admins, and a logout link.
func Nav(user *models.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if user == nil {
			_, err := io.WriteString(w,
				`<li class="nav-item"><a class="nav-link text-primary" href="/login">Login</a></li>`+
					`<li class="nav-item"><a class="nav-link text-secondary" href="/register">Register</a></li>`)
			return err
		}

		if _, err := io.WriteString(w, `<li class="nav-item"><span class="nav-link text-success">Welcome, `+
			templ.EscapeString(user.Username)+`</span></li>`); err != nil {
			return err
		}
		if user.IsAdmin() {
			if _, err := io.WriteString(w, `<li class="nav-item"><a class="nav-link text-warning" href="/feedback-summary">Feedback Summary</a></li>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<li class="nav-item"><a class="nav-link text-danger" href="/logout">Logout</a></li>`)
		return err
	})
}
