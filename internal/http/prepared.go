package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
)

// ErrBodyTaken is returned by [PreparedRequest.GetBody] when the
// underlying stream was already extracted once and cannot be replayed.
var ErrBodyTaken = errors.New("request body already taken")

type PreparedRequest struct {
	*Request

	U          *url.URL
	GetBody    func() (io.ReadCloser, error)
	Header     http.Header
	HeaderHost string

	// ContentLength is the declared body length. -1 means the length
	// is unknown and the body must be framed with chunked encoding.
	ContentLength int64
}

func (r *Request) Prepare() (*PreparedRequest, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, err
	}

	headers := r.Header.Clone()
	if headers == nil {
		headers = make(http.Header)
	}
	host, err := hostFromURL(u)
	if err != nil {
		return nil, err
	}
	cl := int64(-1)
	chunked := false
	// user defined headers has higher priority
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "host":
			if len(v) != 0 {
				if !httpguts.ValidHostHeader(v[0]) {
					return nil, fmt.Errorf("invalid host header value %q", v[0])
				}
				host = v[0]
			}
			delete(headers, k)
		case "content-length":
			if len(v) != 0 {
				n, err := strconv.ParseUint(v[0], 10, 63)
				if err != nil {
					return nil, fmt.Errorf("invalid content-length header value %q", v[0])
				}
				cl = int64(n)
			}
			delete(headers, k)
		case "transfer-encoding":
			// the framing decision is made exactly once. a caller asking
			// for chunked transfer forces the streaming path.
			if len(v) != 0 && strings.ToLower(v[0]) == "chunked" {
				chunked = true
			}
			delete(headers, k)
		}
	}
	for k, vv := range headers {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, fmt.Errorf("invalid header field name %q", k)
		}
		for _, v := range vv {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, fmt.Errorf("invalid header field value for %q", k)
			}
		}
	}

	pr := &PreparedRequest{
		Request: r, U: u,
		Header: headers, HeaderHost: host,
		ContentLength: cl,
	}
	if err := pr.updateBody(); err != nil {
		// note that updateBody potentially updates content-length
		return nil, err
	}
	if cl != -1 && pr.ContentLength != cl {
		return nil, errors.New("conflicting value between body size and content-length request header")
	}
	if chunked {
		pr.ContentLength = -1
	}
	return pr, nil
}

// hostFromURL renders the host header value for a request without an
// explicit Host header: the URL hostname, with the port appended only
// when it differs from the scheme's well-known port. the hostname is
// mapped through IDNA when it isn't plain ASCII.
func hostFromURL(u *url.URL) (string, error) {
	host := u.Hostname()
	if host == "" {
		return "", nil // reported by the encoder, see transport.ErrMissingHost
	}
	if !isASCII(host) {
		mapped, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("invalid hostname %q: %w", host, err)
		}
		host = mapped
	}
	if port := u.Port(); port != "" && port != DefaultPort(u.Scheme) {
		return net.JoinHostPort(host, port), nil
	}
	return host, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// should only be called once at [Prepare]
func (r *PreparedRequest) updateBody() (err error) {
	if r.Request.Body == nil {
		r.ContentLength = 0
		r.GetBody = func() (io.ReadCloser, error) {
			return http.NoBody, nil
		}
		return nil
	}
	switch b := r.Request.Body.(type) {
	case string:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(b)), nil
		}
	case []byte:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	case *bytes.Buffer: // below is taken from http.NewRequest
		r.ContentLength = int64(b.Len())
		buf := b.Bytes()
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	case *bytes.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case *strings.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case io.Reader:
		// a plain stream cannot be replayed, so it may be taken
		// exactly once. its length stays unknown unless it can tell.
		if sizer, ok := b.(interface{ Size() int64 }); ok {
			r.ContentLength = sizer.Size()
		}
		cb, ok := b.(io.ReadCloser)
		if !ok {
			cb = io.NopCloser(b)
		}
		once := uint32(0)
		r.GetBody = func() (io.ReadCloser, error) {
			if atomic.CompareAndSwapUint32(&once, 0, 1) {
				return cb, nil
			}
			return nil, ErrBodyTaken
		}
	default:
		return fmt.Errorf("unsupported body type: %T", r.Request.Body)
	}
	return nil
}
