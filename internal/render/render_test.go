package render

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aimarketer/aimarketer/internal/api/models"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/aimarketer/aimarketer/web/templates/pages"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestPage_SubstitutesNavigation(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "home.html", "<ul>"+Placeholder+"</ul>")

	r := New(dir)

	var buf bytes.Buffer
	require.NoError(t, r.Page(context.Background(), &buf, "home.html", nil))
	assert.Contains(t, buf.String(), `href="/login"`)
	assert.NotContains(t, buf.String(), Placeholder)

	buf.Reset()
	require.NoError(t, r.Page(context.Background(), &buf, "home.html", &models.User{Username: "admin", Role: database.RoleAdmin}))
	assert.Contains(t, buf.String(), "Welcome, admin")
	assert.Contains(t, buf.String(), `href="/feedback-summary"`)
}

func TestPage_ReplacesFirstPlaceholderOnly(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "page.html", Placeholder+"|"+Placeholder)

	var buf bytes.Buffer
	require.NoError(t, New(dir).Page(context.Background(), &buf, "page.html", nil))

	assert.Contains(t, buf.String(), "|"+Placeholder)
}

func TestPage_WithoutPlaceholder(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "plain.html", "<p>plain</p>")

	var buf bytes.Buffer
	require.NoError(t, New(dir).Page(context.Background(), &buf, "plain.html", nil))

	assert.Equal(t, "<p>plain</p>", buf.String())
}

func TestPage_ReadsFreshOnEveryCall(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "home.html", "v1")
	r := New(dir)

	var buf bytes.Buffer
	require.NoError(t, r.Page(context.Background(), &buf, "home.html", nil))
	assert.Equal(t, "v1", buf.String())

	writePage(t, dir, "home.html", "v2")
	buf.Reset()
	require.NoError(t, r.Page(context.Background(), &buf, "home.html", nil))
	assert.Equal(t, "v2", buf.String())
}

func TestPage_Errors(t *testing.T) {
	r := New(t.TempDir())

	var buf bytes.Buffer
	assert.Error(t, r.Page(context.Background(), &buf, "missing.html", nil))
	assert.Error(t, r.Page(context.Background(), &buf, "../etc/passwd", nil))
	assert.Empty(t, buf.String())
}

func TestHTML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		HTML(c, http.StatusBadRequest, pages.Message("All fields are required.", true, "/feedback", "Go back"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "All fields are required.")
}
