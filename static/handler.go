// Package static implements the static-file responder (C9): the same
// request reader and response writer as proxy mode, mapping a request
// path onto the local filesystem instead of dialing an origin, and never
// touching the cache.
package static

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/relay/contrib/log"
	relayerrors "github.com/yourusername/relay/pkg/errors"
	"github.com/yourusername/relay/pkg/httpmsg"
	"github.com/yourusername/relay/respond"
)

// Handler serves files from Root relative to the process working
// directory.
type Handler struct {
	Root string
}

func NewHandler(root string) *Handler {
	return &Handler{Root: root}
}

func (h *Handler) Handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	logger := log.NewHelper(log.GetLogger())

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	req, err := httpmsg.ReadRequest(r)
	if err != nil {
		logger.Warnf("parse request failed: %v", err)
		writeError(w, logger, relayerrors.Errorf("parse request: %s", err))
		return
	}

	if req.Method != "GET" {
		writeError(w, logger, relayerrors.NotImplemented(req.Method))
		return
	}

	resp, err := h.serve(req.URI.Path)
	if err != nil {
		var proxyErr *relayerrors.Error
		if e, ok := err.(*relayerrors.Error); ok {
			proxyErr = e
		} else {
			proxyErr = relayerrors.Errorf("serve file: %s", err)
		}
		writeError(w, logger, proxyErr)
		return
	}

	if err := httpmsg.WriteResponse(w, resp); err != nil {
		logger.Warnf("write response failed: %v", err)
	}
}

func (h *Handler) serve(path string) (httpmsg.Response, error) {
	fsPath := filepath.Join(h.Root, filepath.Clean("/"+strings.TrimPrefix(path, "/")))

	info, err := os.Stat(fsPath)
	if err != nil {
		if os.IsPermission(err) {
			return httpmsg.Response{}, relayerrors.Forbidden(path)
		}
		return httpmsg.Response{}, relayerrors.NotFound(path)
	}
	if info.IsDir() {
		return httpmsg.Response{}, relayerrors.IsDirectory(path)
	}

	content, err := os.ReadFile(fsPath)
	if err != nil {
		if os.IsPermission(err) {
			return httpmsg.Response{}, relayerrors.Forbidden(path)
		}
		return httpmsg.Response{}, relayerrors.NotFound(path)
	}

	headers := []string{
		"Content-Type: " + contentType(path),
		"Content-Length: " + strconv.Itoa(len(content)),
	}

	return httpmsg.Response{
		Version: "HTTP/1.0",
		Status:  200,
		Reason:  "OK",
		Headers: headers,
		Content: content,
	}, nil
}

// contentType infers a response Content-Type from path's suffix, the
// fixed four-way mapping this profile requires.
func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html":
		return "text/html"
	case ".jpg":
		return "image/jpg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "text/plain"
	}
}

func writeError(w *bufio.Writer, logger *log.Helper, err *relayerrors.Error) {
	if writeErr := respond.Write(w, err); writeErr != nil {
		logger.Warnf("write error response failed: %v", writeErr)
	}
}
