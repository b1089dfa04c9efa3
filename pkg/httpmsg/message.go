package httpmsg

// Request is a parsed HTTP request line plus its raw header lines. Only
// GET is meaningfully served; other methods are rejected by the handler
// before any origin dial.
type Request struct {
	Method  string
	URI     URI
	Version string
	Headers []string
}

// Response is a parsed HTTP status line, raw header lines, and body. The
// origin client normalizes Headers before handing a Response to the
// cache or the connection handler (see origin.Normalize).
type Response struct {
	Version string
	Status  uint16
	Reason  string
	Headers []string
	Content []byte
}

// Clone returns a deep copy safe to hand out of the cache: Headers and
// Content share no backing array with the receiver.
func (r Response) Clone() Response {
	headers := make([]string, len(r.Headers))
	copy(headers, r.Headers)

	content := make([]byte, len(r.Content))
	copy(content, r.Content)

	return Response{
		Version: r.Version,
		Status:  r.Status,
		Reason:  r.Reason,
		Headers: headers,
		Content: content,
	}
}

// HeaderValue returns the first whitespace-separated value on the first
// header line whose key matches prefix exactly (including the colon),
// e.g. HeaderValue(headers, "Host:").
func HeaderValue(headers []string, prefix string) (string, bool) {
	for _, h := range headers {
		if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
			continue
		}
		rest := h[len(prefix):]
		for i := 0; i < len(rest); i++ {
			if rest[i] == ' ' || rest[i] == '\t' {
				continue
			}
			j := i
			for j < len(rest) && rest[j] != ' ' && rest[j] != '\t' {
				j++
			}
			return rest[i:j], true
		}
		return "", true
	}
	return "", false
}

// HasHeader reports whether any header line starts with prefix.
func HasHeader(headers []string, prefix string) bool {
	for _, h := range headers {
		if len(h) >= len(prefix) && h[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
