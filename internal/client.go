package internal

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/wireward/go-h1/internal/dialer"
	"github.com/wireward/go-h1/internal/http"
	"github.com/wireward/go-h1/internal/transport"
	"github.com/wireward/go-h1/utils/nettools"
)

type PreparedRequest = http.PreparedRequest
type Dialer = http.Dialer

// Handler sends a prepared request and returns the raw connection
// stream. decoding whatever the peer answers is the caller's business.
type Handler = func(ctx context.Context, req *PreparedRequest) (io.ReadCloser, error)
type Middleware func(next Handler) Handler

type Client struct {
	middlewares []Middleware
	dialer      Dialer

	// WriteTimeout bounds the writability probe run on the connection
	// before the request is encoded onto it. zero skips the probe.
	WriteTimeout time.Duration
}

// Use appends mw to the end of the chain. The last "Use"d mw executes first
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer replaces the dialer used for new connections. the previous
// dialer is passed to wrap so it can be decorated instead of dropped.
func (c *Client) UseDialer(wrap func(Dialer) Dialer) {
	c.dialer = wrap(c.getDialer())
}

func (c *Client) getDialer() Dialer {
	if c.dialer != nil {
		return c.dialer
	}
	return dialer.Default
}

// CtxDo encodes req onto a freshly dialed connection and hands the
// connection back as the response byte stream. ctx is honored at dial
// and between write slices. the connection is closed on any send
// error, otherwise closing the returned stream closes it.
func (c *Client) CtxDo(ctx context.Context, req *http.Request) (io.ReadCloser, error) {
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	next := func(ctx context.Context, req *PreparedRequest) (io.ReadCloser, error) {
		conn, err := c.getDialer().Dial(ctx, req)
		if err != nil {
			return nil, err
		}
		if c.WriteTimeout > 0 {
			if nc, ok := conn.(net.Conn); ok {
				if err := nettools.CheckWritable(nc, c.WriteTimeout); err != nil {
					conn.Close()
					return nil, err
				}
			}
		}
		if err := transport.Write(ctx, conn, req); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}
	for _, mw := range c.middlewares {
		next = mw(next)
	}
	return next(ctx, pr)
}
