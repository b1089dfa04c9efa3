package conf

import (
	"time"

	"dario.cat/mergo"

	"github.com/yourusername/relay/internal/constants"
)

// Default returns the compile-time default configuration.
func Default() *Bootstrap {
	return &Bootstrap{
		Logger: &Logger{
			Level:      "info",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		},
		Server: &Server{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Cache: &Cache{
			MaxCacheSize:   constants.MaxCacheSize,
			MaxContentSize: constants.MaxContentSize,
		},
		Upstream: &Upstream{
			DialTimeout: 10 * time.Second,
		},
		Metrics: &Metrics{
			Addr: "127.0.0.1:9090",
		},
		Static: &Static{
			Root: ".",
		},
	}
}

// Merge overlays non-zero fields of override onto the defaults, matching
// the teacher's use of dario.cat/mergo to combine loaded config with
// built-in defaults.
func Merge(base *Bootstrap, override *Bootstrap) (*Bootstrap, error) {
	if override == nil {
		return base, nil
	}
	if err := mergo.Merge(base, override, mergo.WithOverride); err != nil {
		return nil, err
	}
	return base, nil
}
