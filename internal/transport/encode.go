package transport

import (
	"bytes"
	"errors"
	"io"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/wireward/go-h1/internal/http"
	"github.com/wireward/go-h1/internal/transport/chunked"
)

// finalizeHeaders makes sure the prepared request carries every header
// an HTTP/1.1 message requires before any byte is serialized:
//
//   - a host, lifted into HeaderHost at [http.Request.Prepare]
//   - proxy-connection: keep-alive for CONNECT, unless the caller set one
//   - exactly one framing header, content-length when the body length
//     is known, transfer-encoding: chunked otherwise
//
// the synthesized keys are lowercase literals, bypassing canonical
// MIME casing on purpose. caller-provided keys keep their casing.
func finalizeHeaders(r *http.PreparedRequest) error {
	if r.HeaderHost == "" {
		return ErrMissingHost
	}
	if r.Method == "CONNECT" && !hasHeader(r.Header, "proxy-connection") {
		r.Header["proxy-connection"] = []string{"keep-alive"}
	}
	if r.ContentLength >= 0 {
		r.Header["content-length"] = []string{strconv.FormatInt(r.ContentLength, 10)}
	} else {
		r.Header["transfer-encoding"] = []string{"chunked"}
	}
	return nil
}

func hasHeader(h http.Header, name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// requestTarget renders the request-target for the request line.
// CONNECT uses the authority form, everything else the origin form.
// the URI fragment never reaches the wire.
func requestTarget(r *http.PreparedRequest) (string, error) {
	if r.Method != "CONNECT" {
		return r.U.RequestURI(), nil
	}
	host, port := r.U.Hostname(), r.U.Port()
	if host == "" {
		// URL has no authority, fall back to the host header value
		if h, p, err := net.SplitHostPort(r.HeaderHost); err == nil {
			host, port = h, p
		} else {
			host = r.HeaderHost
		}
	}
	if port == "" {
		port = http.DefaultPort(r.U.Scheme)
	}
	if port == "" {
		return "", ErrNoConnectPort
	}
	return net.JoinHostPort(host, port), nil
}

// composeHead renders the request line and header block, e.g.:
//
//	GET /search?q=x HTTP/1.1\r\n
//	host: www.google.com\r\n
//	content-length: 0\r\n
//	\r\n
//
// the host line always comes first. remaining headers are written in
// case-insensitive name order, one line per value, value order kept.
func composeHead(r *http.PreparedRequest) ([]byte, error) {
	if err := finalizeHeaders(r); err != nil {
		return nil, err
	}
	target, err := requestTarget(r)
	if err != nil {
		return nil, err
	}

	var head bytes.Buffer
	head.WriteString(r.Method)
	head.WriteByte(' ')
	head.WriteString(target)
	head.WriteString(" HTTP/1.1\r\n")

	head.WriteString("host: ")
	head.WriteString(r.HeaderHost)
	head.WriteString("\r\n")
	for _, k := range sortedHeaderNames(r.Header) {
		for _, v := range r.Header[k] {
			head.WriteString(k)
			head.WriteString(": ")
			head.WriteString(v)
			head.WriteString("\r\n")
		}
	}
	head.WriteString("\r\n")
	return head.Bytes(), nil
}

func sortedHeaderNames(h http.Header) []string {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}

type encodeState int

const (
	encodeStart encodeState = iota // nothing produced yet
	encodeHead                     // copying out the rendered head
	encodeBody                     // delegating to the body framer
	encodeDone                     // terminal, reads return io.EOF
)

// Encoder produces the HTTP/1.1 wire representation of a prepared
// request incrementally. every Read fills as much of the caller buffer
// as is currently available:
//
//	n > 0, err == nil   progress, possibly partial
//	0, ErrWouldBlock    nothing available yet, retry later
//	0, io.EOF           the request is fully encoded, repeatable
//	n, err              terminal failure, latched for further reads
//
// an Encoder belongs to exactly one request and must not be driven
// from two call sites at once.
type Encoder struct {
	req *http.PreparedRequest

	state encodeState
	err   error

	head   []byte
	cursor int

	body    io.Reader
	closer  io.Closer
	written int64
	expect  int64
}

func NewEncoder(r *http.PreparedRequest) *Encoder {
	return &Encoder{req: r, expect: -1}
}

func (e *Encoder) Read(p []byte) (n int, err error) {
	if e.err != nil {
		return 0, e.err
	}
	for n < len(p) {
		switch e.state {
		case encodeStart:
			head, err := composeHead(e.req)
			if err != nil {
				return n, e.abort(err)
			}
			e.head, e.cursor = head, 0
			e.state = encodeHead
		case encodeHead:
			c := copy(p[n:], e.head[e.cursor:])
			n += c
			e.cursor += c
			if e.cursor < len(e.head) {
				return n, nil // caller buffer is full
			}
			// the head is fully delivered, take the body. GetBody
			// hands out a one-shot stream at most once.
			body, err := e.req.GetBody()
			if err != nil {
				return n, e.abort(err)
			}
			e.attachBody(body)
			e.state = encodeBody
		case encodeBody:
			c, err := e.body.Read(p[n:])
			n += c
			e.written += int64(c)
			if e.expect >= 0 && e.written > e.expect {
				return n, e.abort(ErrBodyOverrun)
			}
			if err == io.EOF {
				if e.expect >= 0 && e.written != e.expect {
					return n, e.abort(ErrUnexpectedBodyEnd)
				}
				e.release()
				e.state = encodeDone
				continue
			}
			if err != nil {
				if errors.Is(err, ErrWouldBlock) {
					if n == 0 {
						return 0, ErrWouldBlock
					}
					return n, nil
				}
				return n, e.abort(err)
			}
			if c > 0 {
				// favor prompt partial progress over filling the
				// buffer: return before polling the framer again
				return n, nil
			}
		case encodeDone:
			return n, io.EOF
		}
	}
	return n, nil
}

// attachBody wraps the extracted body stream with the framer matching
// the framing decision made in finalizeHeaders. raw passthrough for a
// known content-length, chunk framing otherwise.
func (e *Encoder) attachBody(body io.ReadCloser) {
	e.closer = body
	e.expect = e.req.ContentLength
	if e.expect >= 0 {
		e.body = body
	} else {
		e.body = chunked.NewEncodingReader(body)
	}
}

func (e *Encoder) abort(err error) error {
	e.err = err
	e.release()
	return err
}

func (e *Encoder) release() {
	if e.closer != nil {
		e.closer.Close()
		e.closer = nil
	}
}

// Close releases the body stream if it was already taken. dropping an
// Encoder mid-encode is always safe.
func (e *Encoder) Close() error {
	e.release()
	return nil
}
