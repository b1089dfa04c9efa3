package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o644))

	src := NewSource(path)
	kvs, err := src.Load()
	assert.NoError(t, err)
	assert.Len(t, kvs, 1)
	assert.Equal(t, "json", kvs[0].Format)
}

func TestFormatOfYAML(t *testing.T) {
	assert.Equal(t, "yaml", formatOf("/a/b/config.yaml"))
	assert.Equal(t, "yaml", formatOf("/a/b/config.yml"))
	assert.Equal(t, "json", formatOf("/a/b/config.json"))
}

func TestWatchDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("a: 1"), 0o644))

	src := NewSource(path)
	w, err := src.Watch()
	assert.NoError(t, err)
	defer w.Stop()

	done := make(chan struct{})
	go func() {
		assert.NoError(t, os.WriteFile(path, []byte("a: 2"), 0o644))
		close(done)
	}()
	<-done

	kvs, err := w.Next()
	assert.NoError(t, err)
	assert.Len(t, kvs, 1)
}
