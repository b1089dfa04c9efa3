// Package config is a tiny, generic config loader: one or more Sources
// produce KeyValue fragments that are unmarshaled onto a caller-supplied
// struct, with optional hot-reload via each source's Watcher (file
// providers use fsnotify; see provider/file) and via SIGHUP.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/yourusername/relay/contrib/log"
)

// Observer is notified after a reload with the reload trigger as key
// ("file" for a source watcher event, "sighup" for SIGHUP) and the
// freshly re-scanned value. Watch registers observers under that key.
type Observer[T any] func(string, *T)

// Config is a config interface.
type Config[T any] interface {
	Scan(v *T) error
	Watch(key string, o Observer[T]) error
	Close() error
}

type config[T any] struct {
	opts   *options
	stop   chan struct{}
	signal chan os.Signal

	mu        sync.Mutex
	observers map[string][]Observer[T]
	bc        *T
}

func New[T any](opts ...Option) Config[T] {
	o := &options{}

	for _, opt := range opts {
		opt(o)
	}

	c := &config[T]{
		opts:      o,
		stop:      make(chan struct{}),
		signal:    make(chan os.Signal, 1),
		observers: make(map[string][]Observer[T]),
	}

	go c.watchSources()
	go c.watchSignal()

	return c
}

func (c *config[T]) Scan(v *T) error {
	c.mu.Lock()
	c.bc = v
	c.mu.Unlock()

	for _, source := range c.opts.sources {
		files, err := source.Load()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("config file not found: %w", err)
			}
			return err
		}
		for _, file := range files {
			if file.Value == nil {
				continue
			}
			unmarshal := toUnmarshal(file.Format)
			log.Debugf("[config] load file: %#+v format: %s", file.Key, file.Format)
			if err := unmarshal(file.Value, v); err != nil {
				log.Errorf("[config] unmarshal file: %#+v error: %s", file.Key, err)
			}
		}
	}
	return nil
}

func (c *config[T]) Watch(key string, o Observer[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers[key] = append(c.observers[key], o)
	return nil
}

func (c *config[T]) Close() error {
	close(c.stop)
	return nil
}

func (c *config[T]) watchSignal() {
	signal.Notify(c.signal, syscall.SIGHUP)
	defer signal.Stop(c.signal)

	for {
		select {
		case <-c.stop:
			return
		case <-c.signal:
			log.Debug("[config] received SIGHUP")
			c.reload("sighup")
		}
	}
}

// watchSources spawns one watcher per source that supports it, pushing a
// reload whenever the underlying file changes (fsnotify, for file
// sources).
func (c *config[T]) watchSources() {
	for _, source := range c.opts.sources {
		watcher, err := source.Watch()
		if err != nil {
			continue
		}
		go func(w Watcher) {
			for {
				if _, err := w.Next(); err != nil {
					return
				}
				select {
				case <-c.stop:
					_ = w.Stop()
					return
				default:
					c.reload("file")
				}
			}
		}(watcher)
	}
}

func (c *config[T]) reload(key string) {
	c.mu.Lock()
	bc := c.bc
	c.mu.Unlock()

	if bc == nil {
		return
	}
	if err := c.Scan(bc); err != nil {
		log.Errorf("[config] reload failed: %s", err)
		return
	}

	c.mu.Lock()
	observers := c.observers[key]
	c.mu.Unlock()

	for _, observer := range observers {
		observer(key, bc)
	}
}
