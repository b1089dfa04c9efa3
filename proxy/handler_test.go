package proxy

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/relay/cache"
	"github.com/yourusername/relay/metrics"
	"github.com/yourusername/relay/origin"
)

func startOrigin(t *testing.T, body string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		_, _ = conn.Read(buf)
		_, _ = conn.Write([]byte("HTTP/1.0 200 OK\r\nContent-Length: " +
			itoaForTest(len(body)) + "\r\n\r\n" + body))
	}()

	return ln.Addr().(*net.TCPAddr).AddrPort().String()
}

func itoaForTest(n int) string {
	digits := []byte{}
	if n == 0 {
		return "0"
	}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestHandleCacheMissThenHit(t *testing.T) {
	addr := startOrigin(t, "hello")
	host, port, err := net.SplitHostPort(addr)
	assert.NoError(t, err)

	c := cache.New(1_000_000, 200_000)
	o := origin.New(2 * time.Second)
	h := NewHandler(c, o)

	clientConn, serverConn := net.Pipe()
	done := make(chan struct{})
	go func() {
		ctx, metric := metrics.WithConnection(context.Background(), serverConn)
		_ = metric
		h.Handle(ctx, serverConn)
		close(done)
	}()

	req := "GET http://" + host + ":" + port + "/a HTTP/1.0\r\nHost: " + host + "\r\n\r\n"
	_, err = clientConn.Write([]byte(req))
	assert.NoError(t, err)

	r := bufio.NewReader(clientConn)
	line, err := r.ReadString('\n')
	assert.NoError(t, err)
	assert.Contains(t, line, "200")

	<-done
	clientConn.Close()

	_, hit := c.Lookup("http://" + host + ":" + port + "/a")
	assert.True(t, hit)
}

func TestHandleNonGETYields501(t *testing.T) {
	c := cache.New(1_000_000, 200_000)
	o := origin.New(2 * time.Second)
	h := NewHandler(c, o)

	clientConn, serverConn := net.Pipe()
	done := make(chan struct{})
	go func() {
		ctx, _ := metrics.WithConnection(context.Background(), serverConn)
		h.Handle(ctx, serverConn)
		close(done)
	}()

	req := "POST /x HTTP/1.0\r\nHost: h\r\n\r\n"
	_, err := clientConn.Write([]byte(req))
	assert.NoError(t, err)

	r := bufio.NewReader(clientConn)
	line, err := r.ReadString('\n')
	assert.NoError(t, err)
	assert.Contains(t, line, "501")

	<-done
	clientConn.Close()
}
