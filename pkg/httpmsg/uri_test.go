package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseURIAbsolute(t *testing.T) {
	uri, ok := ParseURI("http://h:8080/x", "")
	assert.True(t, ok)
	assert.Equal(t, URI{Host: "h", Port: 8080, Path: "/x"}, uri)
}

func TestParseURIRelativeUsesHostHeader(t *testing.T) {
	uri, ok := ParseURI("/x", "h")
	assert.True(t, ok)
	assert.Equal(t, URI{Host: "h", Port: 80, Path: "/x"}, uri)
}

func TestParseURIAuthorityNoScheme(t *testing.T) {
	uri, ok := ParseURI("h:8080/x", "")
	assert.True(t, ok)
	assert.Equal(t, URI{Host: "h", Port: 8080, Path: "/x"}, uri)
}

func TestParseURINoPath(t *testing.T) {
	_, ok := ParseURI("h:8080", "")
	assert.False(t, ok)
}

func TestParseURINoHostAtAll(t *testing.T) {
	_, ok := ParseURI("/x", "")
	assert.False(t, ok)
}

func TestURIStringOmitsDefaultPort(t *testing.T) {
	uri := URI{Host: "h", Port: 80, Path: "/x"}
	assert.Equal(t, "http://h/x", uri.String())
}

func TestURIStringIncludesNonDefaultPort(t *testing.T) {
	uri := URI{Host: "h", Port: 8080, Path: "/x"}
	assert.Equal(t, "http://h:8080/x", uri.String())
}

func TestURIAuthority(t *testing.T) {
	uri := URI{Host: "h", Port: 8080, Path: "/x"}
	assert.Equal(t, "h:8080", uri.Authority())
}
