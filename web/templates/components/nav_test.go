package components

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aimarketer/aimarketer/internal/api/models"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderNav(t *testing.T, user *models.User) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Nav(user).Render(context.Background(), &sb))
	return sb.String()
}

func TestNav_Anonymous(t *testing.T) {
	html := renderNav(t, nil)

	assert.Contains(t, html, `href="/login"`)
	assert.Contains(t, html, `href="/register"`)
	assert.NotContains(t, html, "Welcome")
	assert.NotContains(t, html, `href="/logout"`)
}

func TestNav_User(t *testing.T) {
	html := renderNav(t, &models.User{Username: "jane", Role: database.RoleUser})

	assert.Contains(t, html, "Welcome, jane")
	assert.Contains(t, html, `href="/logout"`)
	assert.NotContains(t, html, `href="/feedback-summary"`)
	assert.NotContains(t, html, `href="/login"`)
}

func TestNav_Admin(t *testing.T) {
	html := renderNav(t, &models.User{Username: "admin", Role: database.RoleAdmin})

	assert.Contains(t, html, "Welcome, admin")
	assert.Contains(t, html, `href="/feedback-summary"`)
	assert.Less(t, strings.Index(html, "/feedback-summary"), strings.Index(html, "/logout"))
}

func TestNav_EscapesUsername(t *testing.T) {
	html := renderNav(t, &models.User{Username: `<script>alert("x")</script>`, Role: database.RoleUser})

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestFormatRelativeTime(t *testing.T) {
	assert.Equal(t, "3 days ago", FormatRelativeTime(time.Now().Add(-72*time.Hour)))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "2.0 kB", FormatFileSize(2000))
}
