package debug

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/relay/cache"
	"github.com/yourusername/relay/pkg/httpmsg"
)

func emptyResponse(content string) httpmsg.Response {
	return httpmsg.Response{Version: "HTTP/1.0", Status: 200, Reason: "OK", Content: []byte(content)}
}

func TestHandleCacheJSON(t *testing.T) {
	c := cache.New(1_000_000, 200_000)
	c.Insert("http://h/a", emptyResponse("x"))

	l := New("", c, nil)

	req := httptest.NewRequest(http.MethodGet, "/debug/cache", nil)
	rec := httptest.NewRecorder()
	l.handleCache(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "http://h/a")
}

func TestHandleCacheCBOR(t *testing.T) {
	c := cache.New(1_000_000, 200_000)
	l := New("", c, nil)

	req := httptest.NewRequest(http.MethodGet, "/debug/cache", nil)
	req.Header.Set("Accept", "application/cbor")
	rec := httptest.NewRecorder()
	l.handleCache(rec, req)

	assert.Equal(t, "application/cbor", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHandleHealthz(t *testing.T) {
	l := New("", cache.New(1, 1), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	l.handleHealthz(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
