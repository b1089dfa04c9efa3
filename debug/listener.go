// Package debug implements the metrics & introspection listener (C12):
// an HTTP endpoint independent of the proxy/static acceptor, exposing
// prometheus metrics, a point-in-time cache snapshot, and a liveness
// probe.
package debug

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/relay/cache"
	"github.com/yourusername/relay/contrib/log"
	"github.com/yourusername/relay/metrics"
	runtimeinfo "github.com/yourusername/relay/pkg/x/runtime"
)

// Listener serves /metrics, /debug/cache, /debug/version, and /healthz.
// It never touches the request path's cache mutex beyond the read-only
// Snapshot call.
type Listener struct {
	addr     string
	cache    *cache.Memory
	operator any
	server   *http.Server
}

// New returns a Listener bound to addr, reporting c's contents on
// /debug/cache. operator, if non-nil, is folded into /debug/version
// (typically a conf.OperatorInfo decoded from the freeform config
// section via pkg/mapstruct).
func New(addr string, c *cache.Memory, operator any) *Listener {
	l := &Listener{addr: addr, cache: c, operator: operator}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/cache", l.handleCache)
	mux.HandleFunc("/debug/version", l.handleVersion)
	mux.HandleFunc("/healthz", l.handleHealthz)

	l.server = &http.Server{Addr: addr, Handler: mux}
	return l
}

type cacheSnapshot struct {
	Entries int      `json:"entries"`
	URIs    []string `json:"uris"`
}

func (l *Listener) handleCache(w http.ResponseWriter, r *http.Request) {
	uris := l.cache.Snapshot()
	snap := cacheSnapshot{Entries: len(uris), URIs: uris}

	if strings.Contains(r.Header.Get("Accept"), "application/cbor") {
		body, err := cbor.Marshal(snap)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/cbor")
		_, _ = w.Write(body)
		return
	}

	body, err := json.Marshal(snap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (l *Listener) handleVersion(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(struct {
		runtimeinfo.RuntimeInfo
		Operator any `json:"operator,omitempty"`
	}{RuntimeInfo: runtimeinfo.BuildInfo, Operator: l.operator})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

type healthzBody struct {
	Status               string  `json:"status"`
	ConnectionsPerSecond float64 `json:"connections_per_second"`
}

func (l *Listener) handleHealthz(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(healthzBody{Status: "ok", ConnectionsPerSecond: metrics.ConnectionRate()})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Start blocks serving HTTP until the listener is shut down.
func (l *Listener) Start(ctx context.Context) error {
	if l.addr == "" {
		<-ctx.Done()
		return nil
	}
	log.NewHelper(log.GetLogger()).Infof("debug listener on %s", l.addr)
	err := l.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the listener down within the context's deadline.
func (l *Listener) Stop(ctx context.Context) error {
	if l.addr == "" {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return l.server.Shutdown(shutdownCtx)
}
