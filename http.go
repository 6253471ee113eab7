// package h1 encodes HTTP/1.1 requests onto the wire incrementally.
// the [Encoder] is the core: it serializes the request line and the
// finalized header block, then streams the framed body, one caller
// buffer at a time, under a poll/retry contract. [Client] is a thin
// pipeline that encodes onto a dialed connection and hands the raw
// connection back for the response.
package h1

import (
	"context"
	"io"
	"net/http"

	"github.com/wireward/go-h1/internal"
	ihttp "github.com/wireward/go-h1/internal/http"
	"github.com/wireward/go-h1/internal/transport"
)

type Client = internal.Client
type Header = http.Header
type Request = ihttp.Request
type PreparedRequest = ihttp.PreparedRequest
type Encoder = transport.Encoder

type Middleware = internal.Middleware

var (
	ErrWouldBlock        = transport.ErrWouldBlock
	ErrMissingHost       = transport.ErrMissingHost
	ErrNoConnectPort     = transport.ErrNoConnectPort
	ErrUnexpectedBodyEnd = transport.ErrUnexpectedBodyEnd
	ErrBodyOverrun       = transport.ErrBodyOverrun
	ErrBodyTaken         = ihttp.ErrBodyTaken
)

// NewEncoder prepares req and returns the incremental encoder for it.
// the encoder owns the request body from the moment the head is fully
// read out; Close releases it if the encode is abandoned early.
func NewEncoder(req *Request) (*Encoder, error) {
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	return transport.NewEncoder(pr), nil
}

// Encode writes the complete wire representation of req to w.
// EncodeContext allows stopping a long encode early.
func Encode(w io.Writer, req *Request) error {
	return EncodeContext(context.Background(), w, req)
}

// EncodeContext writes the complete wire representation of req to w,
// checking ctx between write slices.
func EncodeContext(ctx context.Context, w io.Writer, req *Request) error {
	pr, err := req.Prepare()
	if err != nil {
		return err
	}
	return transport.Write(ctx, w, pr)
}
