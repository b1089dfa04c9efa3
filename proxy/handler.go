// Package proxy implements the connection handler (C7): per-connection
// request parse, cache lookup or origin fetch, cache insert, response
// write.
package proxy

import (
	"bufio"
	"context"
	"net"

	"github.com/yourusername/relay/cache"
	"github.com/yourusername/relay/contrib/log"
	"github.com/yourusername/relay/metrics"
	"github.com/yourusername/relay/origin"
	relayerrors "github.com/yourusername/relay/pkg/errors"
	"github.com/yourusername/relay/pkg/httpmsg"
	"github.com/yourusername/relay/respond"
)

// Handler composes C2/C4/C5/C3/C6 into the per-connection flow §4.7
// describes.
type Handler struct {
	cache  cache.Cache
	origin *origin.Client
}

func NewHandler(c cache.Cache, o *origin.Client) *Handler {
	return &Handler{cache: c, origin: o}
}

// Handle runs one connection to completion: it always closes conn before
// returning.
func (h *Handler) Handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	metric := metrics.FromContext(ctx)
	logger := log.Context(log.WithRequestID(ctx, metric.RequestID))

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	req, err := httpmsg.ReadRequest(r)
	if err != nil {
		logger.Warnf("parse request failed: %v", err)
		writeError(w, logger, relayerrors.Errorf("parse request: %s", err))
		return
	}
	metric.StoreURL = req.URI.String()

	if req.Method != "GET" {
		writeError(w, logger, relayerrors.NotImplemented(req.Method))
		return
	}

	key := req.URI.String()
	resp, hit := h.cache.Lookup(key)
	if hit {
		metric.CacheStatus = "hit"
	} else {
		metric.CacheStatus = "miss"
		resp, err = h.origin.Fetch(ctx, req)
		if err != nil {
			metrics.ObserveOriginError()
			logger.Warnf("origin fetch failed: %v", err)
			proxyErr, ok := err.(*relayerrors.Error)
			if !ok {
				proxyErr = relayerrors.Errorf("origin fetch: %s", err)
			}
			writeError(w, logger, proxyErr)
			return
		}
		// Only origin responses are inserted: re-inserting a hit would move
		// its URI to the back of the FIFO order.
		h.cache.Insert(key, resp)
	}

	if err := httpmsg.WriteResponse(w, resp); err != nil {
		logger.Warnf("write response failed: %v", err)
	}
}

func writeError(w *bufio.Writer, logger *log.Helper, err *relayerrors.Error) {
	if writeErr := respond.Write(w, err); writeErr != nil {
		logger.Warnf("write error response failed: %v", writeErr)
	}
}
