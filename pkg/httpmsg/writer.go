package httpmsg

import (
	"bufio"
	"fmt"

	"github.com/yourusername/relay/pkg/errors"
)

// WriteRequest emits a request line in absolute-URI form followed by the
// header block and a blank line. No body: this proxy only forwards GET.
func WriteRequest(w *bufio.Writer, req Request) error {
	if _, err := fmt.Fprintf(w, "%s %s %s\r\n", req.Method, req.URI.String(), req.Version); err != nil {
		return errors.Errorf("write request line: %s", err)
	}
	if err := writeHeaders(w, req.Headers); err != nil {
		return err
	}
	return w.Flush()
}

// WriteResponse emits a status line, header block, blank line, and the
// raw content bytes.
func WriteResponse(w *bufio.Writer, resp Response) error {
	if _, err := fmt.Fprintf(w, "%s %d %s\r\n", resp.Version, resp.Status, resp.Reason); err != nil {
		return errors.Errorf("write status line: %s", err)
	}
	if err := writeHeaders(w, resp.Headers); err != nil {
		return err
	}
	if _, err := w.Write(resp.Content); err != nil {
		return errors.Errorf("write body: %s", err)
	}
	return w.Flush()
}

func writeHeaders(w *bufio.Writer, headers []string) error {
	for _, h := range headers {
		if _, err := fmt.Fprintf(w, "%s\r\n", h); err != nil {
			return errors.Errorf("write header: %s", err)
		}
	}
	if _, err := w.WriteString("\r\n"); err != nil {
		return errors.Errorf("write header terminator: %s", err)
	}
	return nil
}
