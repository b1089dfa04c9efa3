package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	relayerrors "github.com/yourusername/relay/pkg/errors"
)

func TestServeMissingFileIsNotFound(t *testing.T) {
	h := NewHandler(t.TempDir())
	_, err := h.serve("/does-not-exist.html")
	proxyErr, ok := err.(*relayerrors.Error)
	assert.True(t, ok)
	assert.Equal(t, relayerrors.KindNotFound, proxyErr.Kind)
}

func TestServeDirectoryIsDirectory(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	h := NewHandler(root)
	_, err := h.serve("/sub")
	proxyErr, ok := err.(*relayerrors.Error)
	assert.True(t, ok)
	assert.Equal(t, relayerrors.KindIsDirectory, proxyErr.Kind)
}

func TestServeFileReturnsContentAndType(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(root, "page.html"), []byte("<html></html>"), 0o644))

	h := NewHandler(root)
	resp, err := h.serve("/page.html")
	assert.NoError(t, err)
	assert.Equal(t, uint16(200), resp.Status)
	assert.Contains(t, resp.Headers, "Content-Type: text/html")
	assert.Equal(t, []byte("<html></html>"), resp.Content)
}

func TestContentTypeFallback(t *testing.T) {
	assert.Equal(t, "text/plain", contentType("/file.unknown"))
	assert.Equal(t, "image/png", contentType("/file.PNG"))
}
