package http

import (
	"context"
	"io"
	"net/http"
)

// Dialers handle pretty much everything related to the actual connection,
// including setting resolvers, binding to interfaces, etc.
type Dialer interface {
	// Dial returns an abstract stream the encoded request is written to.
	// whatever the peer sends back is read from the same stream.
	Dial(ctx context.Context, r *PreparedRequest) (io.ReadWriteCloser, error)
	Unwrap() Dialer
}

type Request struct {
	Method string
	URL    string
	Body   interface{}
	Header http.Header
}

// DefaultPort returns the well-known port for scheme, or "" if the
// scheme has none.
func DefaultPort(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	case "socks":
		return "1080"
	}
	return ""
}
