package httpmsg

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/yourusername/relay/pkg/errors"
)

const (
	headerContentLength    = "Content-Length:"
	headerTransferEncoding = "Transfer-Encoding:"
)

// ReadLine reads bytes up to and including '\n' and returns the line
// without its trailing CRLF (or bare LF).
func ReadLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", errors.Errorf("read line: %s", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadHeaderBlock reads lines until an empty line, returning the
// trimmed non-empty lines in order, verbatim.
func ReadHeaderBlock(r *bufio.Reader) ([]string, error) {
	var headers []string
	for {
		line, err := ReadLine(r)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return headers, nil
		}
		headers = append(headers, line)
	}
}

// ReadBody reads a message body per the framing declared in headers:
// Content-Length if present, else chunked if Transfer-Encoding names it,
// else no body at all.
func ReadBody(r *bufio.Reader, headers []string) ([]byte, error) {
	if v, ok := HeaderValue(headers, headerContentLength); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Errorf("parse content-length: %s", err)
		}
		return readExactly(r, n)
	}

	for _, h := range headers {
		if strings.HasPrefix(h, headerTransferEncoding) {
			if strings.Contains(h[len(headerTransferEncoding):], "chunked") {
				return readChunked(r)
			}
			break
		}
	}

	return nil, nil
}

func readExactly(r *bufio.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := readFull(r, buf); err != nil {
		return nil, errors.Errorf("read body: %s", err)
	}
	return buf, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// readChunked decodes chunked transfer framing: a sequence of
// <hex-size>\r\n<data>\r\n chunks terminated by a zero-size chunk.
// Trailers (headers after the zero chunk) are not read.
func readChunked(r *bufio.Reader) ([]byte, error) {
	var content []byte
	for {
		line, err := ReadLine(r)
		if err != nil {
			return nil, err
		}

		sizeStr := line
		if i := strings.IndexByte(sizeStr, ';'); i >= 0 {
			sizeStr = sizeStr[:i]
		}
		sizeStr = strings.TrimSpace(sizeStr)

		size, err := strconv.ParseUint(sizeStr, 16, 32)
		if err != nil {
			return nil, errors.Errorf("parse chunk size: %s", err)
		}
		if size == 0 {
			return content, nil
		}

		chunk, err := readExactly(r, int(size))
		if err != nil {
			return nil, err
		}
		content = append(content, chunk...)

		if _, err := ReadLine(r); err != nil {
			return nil, err
		}
	}
}

// ReadRequest parses a request line and header block off r. The
// request-target is resolved against the first Host: header, defaulting
// to "" when absent (ParseURI then requires the target itself carry an
// authority).
func ReadRequest(r *bufio.Reader) (Request, error) {
	line, err := ReadLine(r)
	if err != nil {
		return Request{}, err
	}

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Request{}, errors.Errorf("malformed request line: %s", errMalformed(line))
	}
	method, target, version := fields[0], fields[1], fields[2]

	headers, err := ReadHeaderBlock(r)
	if err != nil {
		return Request{}, err
	}

	host, _ := HeaderValue(headers, "Host:")
	uri, ok := ParseURI(target, host)
	if !ok {
		return Request{}, errors.Errorf("parse request target: %s", errMalformed(target))
	}

	return Request{Method: method, URI: uri, Version: version, Headers: headers}, nil
}

// ReadResponse parses a status line, header block, and body off r.
func ReadResponse(r *bufio.Reader) (Response, error) {
	line, err := ReadLine(r)
	if err != nil {
		return Response{}, err
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Response{}, errors.Errorf("malformed status line: %s", errMalformed(line))
	}
	version := fields[0]

	status, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return Response{}, errors.Errorf("parse status code: %s", err)
	}

	reason := ""
	if len(fields) > 2 {
		reason = strings.Join(fields[2:], " ")
	}

	headers, err := ReadHeaderBlock(r)
	if err != nil {
		return Response{}, err
	}

	content, err := ReadBody(r, headers)
	if err != nil {
		return Response{}, err
	}

	return Response{Version: version, Status: uint16(status), Reason: reason, Headers: headers, Content: content}, nil
}

type malformedErr string

func (e malformedErr) Error() string { return string(e) }

func errMalformed(detail string) error { return malformedErr(detail) }
