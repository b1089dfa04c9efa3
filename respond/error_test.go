package respond

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	relayerrors "github.com/yourusername/relay/pkg/errors"
)

func TestWriteNotImplemented(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	err := relayerrors.NotImplemented("POST")
	assert.NoError(t, Write(w, err))

	out := buf.String()
	assert.Contains(t, out, "HTTP/1.0 501 NotImplemented\r\n")
	assert.Contains(t, out, "Content-Type: text/html\r\n")
	assert.Contains(t, out, "<b>501: NotImplemented</b>")
	assert.Contains(t, out, "The requested method is not implemented: POST")
}

func TestWriteContentLengthMatchesBody(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	assert.NoError(t, Write(w, relayerrors.NotFound("/missing")))

	out := buf.String()
	headerEnd := bytes.Index([]byte(out), []byte("\r\n\r\n"))
	assert.Greater(t, headerEnd, 0)
	body := out[headerEnd+4:]
	assert.Contains(t, out, "Content-Length: ")
	assert.NotEmpty(t, body)
}
