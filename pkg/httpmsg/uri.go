package httpmsg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultPort is substituted when a request-target carries no explicit
// port.
const DefaultPort = 80

// URI is a parsed request-target: host, port (default 80), and a path
// that always starts with '/'.
type URI struct {
	Host string
	Port uint16
	Path string
}

// requestTargetRE captures an optional scheme+authority and the path,
// mirroring the three accepted shapes: "http://host[:port]/path",
// "host[:port]/path", and "/path".
var requestTargetRE = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9+.-]*://)?([^/]*)(/.*?)\s*$`)

// ParseURI splits raw (the second token of a request line) into a URI,
// defaulting the host from defaultHost when the request-target carries
// no authority. Returns false when raw has no path component at all.
func ParseURI(raw, defaultHost string) (URI, bool) {
	m := requestTargetRE.FindStringSubmatch(raw)
	if m == nil {
		return URI{}, false
	}

	authority, path := m[1], m[2]
	if path == "" {
		return URI{}, false
	}

	host, port := splitAuthority(authority)
	if host == "" {
		host, port = splitAuthority(defaultHost)
	}
	if host == "" {
		return URI{}, false
	}

	if normalized, err := idna.Lookup.ToASCII(host); err == nil {
		host = normalized
	}

	return URI{Host: host, Port: port, Path: path}, true
}

func splitAuthority(authority string) (host string, port uint16) {
	authority = strings.TrimSpace(authority)
	if authority == "" {
		return "", DefaultPort
	}

	host, portStr, found := strings.Cut(authority, ":")
	if !found {
		return host, DefaultPort
	}

	p, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return host, DefaultPort
	}
	return host, uint16(p)
}

// String renders the canonical form used as cache key and ordering key:
// "http://<host><:port-if-not-80><path>".
func (u URI) String() string {
	if u.Port == DefaultPort {
		return fmt.Sprintf("http://%s%s", u.Host, u.Path)
	}
	return fmt.Sprintf("http://%s:%d%s", u.Host, u.Port, u.Path)
}

// Authority renders "host:port", the form passed to net.Dial.
func (u URI) Authority() string {
	return fmt.Sprintf("%s:%d", u.Host, u.Port)
}
