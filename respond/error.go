// Package respond renders the proxy's canonical error responses (C6):
// one fixed HTML body per failure kind, written straight onto a
// connection's writer half.
package respond

import (
	"bufio"
	"fmt"

	relayerrors "github.com/yourusername/relay/pkg/errors"
)

type statusInfo struct {
	status      int
	shortName   string
	explanation string
}

var statusByKind = map[relayerrors.Kind]statusInfo{
	relayerrors.KindError:          {400, "Error", "Error occured"},
	relayerrors.KindForbidden:      {403, "Forbidden", "The requested file is forbidden"},
	relayerrors.KindIsDirectory:    {403, "Forbidden", "The requested file is a directory"},
	relayerrors.KindNotFound:       {404, "NotFound", "The requested file is not found"},
	relayerrors.KindNotImplemented: {501, "NotImplemented", "The requested method is not implemented"},
}

const bodyTemplate = "<html><head><title>Mini Error</title></head><body bgcolor=ffffff>\r\n" +
	"<b>%d: %s</b>\r\n" +
	"<p>%s: %s\r\n" +
	"<hr><em>Mini Web server</em></body></html>\r\n"

// Write renders err as a full HTTP/1.0 error response (status line,
// Content-Type, Content-Length, blank line, HTML body) onto w. Errors
// returned by Write are the underlying I/O failure: the caller should
// simply close the connection, per the spec's best-effort semantics.
func Write(w *bufio.Writer, err *relayerrors.Error) error {
	info, ok := statusByKind[err.Kind]
	if !ok {
		info = statusByKind[relayerrors.KindError]
	}

	body := fmt.Sprintf(bodyTemplate, info.status, info.shortName, info.explanation, err.Detail)

	if _, writeErr := fmt.Fprintf(w, "HTTP/1.0 %d %s\r\n", info.status, info.shortName); writeErr != nil {
		return writeErr
	}
	if _, writeErr := fmt.Fprintf(w, "Content-Type: text/html\r\n"); writeErr != nil {
		return writeErr
	}
	if _, writeErr := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); writeErr != nil {
		return writeErr
	}
	if _, writeErr := w.WriteString(body); writeErr != nil {
		return writeErr
	}
	return w.Flush()
}
