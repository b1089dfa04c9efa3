package httpmsg

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadRequestAbsoluteURI(t *testing.T) {
	raw := "GET http://h:8080/x HTTP/1.0\r\n\r\n"
	req, err := ReadRequest(bufio.NewReader(strings.NewReader(raw)))
	assert.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, URI{Host: "h", Port: 8080, Path: "/x"}, req.URI)
}

func TestReadRequestRelativeWithHostHeader(t *testing.T) {
	raw := "GET /x HTTP/1.0\r\nHost: h\r\n\r\n"
	req, err := ReadRequest(bufio.NewReader(strings.NewReader(raw)))
	assert.NoError(t, err)
	assert.Equal(t, URI{Host: "h", Port: 80, Path: "/x"}, req.URI)
	assert.Equal(t, []string{"Host: h"}, req.Headers)
}

func TestReadRequestMalformedLine(t *testing.T) {
	raw := "GET\r\n\r\n"
	_, err := ReadRequest(bufio.NewReader(strings.NewReader(raw)))
	assert.Error(t, err)
}

func TestReadResponseFixedLength(t *testing.T) {
	raw := "HTTP/1.0 200 OK\r\nContent-Length: 5\r\n\r\nhello"
	resp, err := ReadResponse(bufio.NewReader(strings.NewReader(raw)))
	assert.NoError(t, err)
	assert.Equal(t, uint16(200), resp.Status)
	assert.Equal(t, "OK", resp.Reason)
	assert.Equal(t, []byte("hello"), resp.Content)
}

func TestReadResponseChunked(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n2\r\nab\r\n1\r\nc\r\n0\r\n\r\n"
	resp, err := ReadResponse(bufio.NewReader(strings.NewReader(raw)))
	assert.NoError(t, err)
	assert.Equal(t, []byte("abc"), resp.Content)
}

func TestReadResponseChunkedEmptyBody(t *testing.T) {
	raw := "HTTP/1.0 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n"
	resp, err := ReadResponse(bufio.NewReader(strings.NewReader(raw)))
	assert.NoError(t, err)
	assert.Empty(t, resp.Content)
}

func TestReadResponseNoBody(t *testing.T) {
	raw := "HTTP/1.0 204 No Content\r\n\r\n"
	resp, err := ReadResponse(bufio.NewReader(strings.NewReader(raw)))
	assert.NoError(t, err)
	assert.Nil(t, resp.Content)
}

func TestReadHeaderBlockPreservesOrder(t *testing.T) {
	raw := "A: 1\r\nB: 2\r\n\r\n"
	headers, err := ReadHeaderBlock(bufio.NewReader(strings.NewReader(raw)))
	assert.NoError(t, err)
	assert.Equal(t, []string{"A: 1", "B: 2"}, headers)
}
