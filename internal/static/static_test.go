package static

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	fsys, err := FS()
	require.NoError(t, err)

	for _, name := range []string{"/css/site.css", "/js/feedback.js"} {
		f, err := fsys.Open(name)
		require.NoError(t, err, name)
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.NotEmpty(t, content, name)
		require.NoError(t, f.Close())
	}
}
