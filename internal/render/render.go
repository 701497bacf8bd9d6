// Package render serves the static HTML pages with the navigation fragment
// substituted for the current session.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/aimarketer/aimarketer/internal/api/models"
	"github.com/aimarketer/aimarketer/web/templates/components"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Placeholder is the token in a page that is replaced by the navigation fragment.
const Placeholder = "<!--WELCOME_PLACEHOLDER-->"

// Renderer reads pages from a directory on every call, so edits show up without a restart.
type Renderer struct {
	dir string
}

// New creates a renderer for the pages in dir.
func New(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Page writes the named page with the first placeholder replaced by the navigation
// fragment for user. A nil user renders the anonymous navigation.
func (r *Renderer) Page(ctx context.Context, w io.Writer, name string, user *models.User) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid page name %q", name)
	}

	content, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return fmt.Errorf("failed to read page %s: %w", name, err)
	}

	var nav strings.Builder
	if err := components.Nav(user).Render(ctx, &nav); err != nil {
		return fmt.Errorf("failed to render navigation: %w", err)
	}

	html := strings.Replace(string(content), Placeholder, nav.String(), 1)
	if _, err := io.WriteString(w, html); err != nil {
		return fmt.Errorf("failed to write page %s: %w", name, err)
	}
	return nil
}

// HTML writes component as the text/html response with the given status.
func HTML(c *gin.Context, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		log.Error("Failed to render response", "error", err)
	}
}
