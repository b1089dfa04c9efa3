// Package file is a config.Source backed by a single YAML/JSON file on
// disk, watched for changes with fsnotify.
package file

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/yourusername/relay/contrib/config"
)

var _ config.Source = (*fileSource)(nil)

type fileSource struct {
	path string
}

// NewSource returns a config.Source reading path. Format is inferred
// from the file extension (".yaml"/".yml" → yaml, else json).
func NewSource(path string) config.Source {
	return &fileSource{path: path}
}

func (f *fileSource) Load() ([]*config.KeyValue, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	return []*config.KeyValue{
		{
			Key:    f.path,
			Value:  data,
			Format: formatOf(f.path),
		},
	}, nil
}

func (f *fileSource) Watch() (config.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(f.path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &fileWatcher{source: f, watcher: w}, nil
}

func formatOf(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

type fileWatcher struct {
	source  *fileSource
	watcher *fsnotify.Watcher
}

func (w *fileWatcher) Next() ([]*config.KeyValue, error) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil, os.ErrClosed
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.source.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			return w.source.Load()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil, os.ErrClosed
			}
			return nil, err
		}
	}
}

func (w *fileWatcher) Stop() error {
	return w.watcher.Close()
}
