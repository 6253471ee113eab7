package internal_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/wireward/go-h1/internal"
	ihttp "github.com/wireward/go-h1/internal/http"
)

type tCase struct {
	data []byte
	req  *ihttp.Request
}

var reqShouldBe = map[string]tCase{
	"BasicRequest": {
		req: &ihttp.Request{
			Method: "GET",
			URL:    "http://www.example.com",
		},
		data: []byte("GET / HTTP/1.1\r\nhost: www.example.com\r\ncontent-length: 0\r\n\r\n"),
	},
	"QueryNonStandard": {
		req: &ihttp.Request{
			Method: "GET",
			URL:    "http://www.example.com/test?1=33=1",
		},
		data: []byte("GET /test?1=33=1 HTTP/1.1\r\nhost: www.example.com\r\ncontent-length: 0\r\n\r\n"),
	},
	"HeaderNotCanonicalized": {
		req: &ihttp.Request{
			Method: "GET",
			URL:    "http://www.example.com/",
			Header: http.Header{"x-123-vv": {"1"}},
		},
		data: []byte("GET / HTTP/1.1\r\nhost: www.example.com\r\ncontent-length: 0\r\nx-123-vv: 1\r\n\r\n"),
	},
	"URIFragmentNotIncluded": {
		req: &ihttp.Request{
			Method: "GET",
			URL:    "http://www.example.com/?test=1#frag",
		},
		data: []byte("GET /?test=1 HTTP/1.1\r\nhost: www.example.com\r\ncontent-length: 0\r\n\r\n"),
	},
	"PostWithBody": {
		req: &ihttp.Request{
			Method: "POST",
			URL:    "http://www.example.com/submit",
			Body:   "a=1&b=2",
		},
		data: []byte("POST /submit HTTP/1.1\r\nhost: www.example.com\r\ncontent-length: 7\r\n\r\na=1&b=2"),
	},
}

func TestRequestSerialize(t *testing.T) {
	for name, cas := range reqShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			req := SendSingleRequest(t, tCase.req)
			if err := iotest.TestReader(req, tCase.data); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(tag string) internal.Middleware {
		return func(next internal.Handler) internal.Handler {
			return func(ctx context.Context, req *internal.PreparedRequest) (io.ReadCloser, error) {
				order = append(order, tag)
				return next(ctx, req)
			}
		}
	}

	readRequest, writeRequest := io.Pipe()
	go io.Copy(io.Discard, readRequest)

	c := &internal.Client{}
	c.UseDialer(func(ihttp.Dialer) ihttp.Dialer {
		return &TestDialer{CombinedReadWriteCloser{
			Reader: strings.NewReader(""),
			Writer: writeRequest,
			Closer: writeRequest,
		}}
	})
	c.Use(mw("first"), mw("second"))

	stream, err := c.CtxDo(context.Background(), &ihttp.Request{Method: "GET", URL: "http://www.example.com/"})
	if err != nil {
		t.Fatal(err)
	}
	stream.Close()

	// the last Use'd middleware executes first
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("middleware order = %v", order)
	}
}

func TestCtxDoCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, writeRequest := io.Pipe()
	c := &internal.Client{}
	c.UseDialer(func(ihttp.Dialer) ihttp.Dialer {
		return &TestDialer{CombinedReadWriteCloser{
			Reader: strings.NewReader(""),
			Writer: writeRequest,
			Closer: writeRequest,
		}}
	})

	if _, err := c.CtxDo(ctx, &ihttp.Request{Method: "GET", URL: "http://www.example.com/"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

// cancels its context on the first read and keeps producing afterwards
type cancelingBody struct {
	cancel context.CancelFunc
	reads  int
}

func (b *cancelingBody) Read(p []byte) (int, error) {
	b.reads++
	if b.reads == 1 {
		b.cancel()
		return copy(p, "first"), nil
	}
	return copy(p, "post-cancel-data"), nil
}

func TestCtxDoCanceledMidWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readRequest, writeRequest := io.Pipe()
	var wire bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&wire, readRequest)
		close(done)
	}()

	c := &internal.Client{}
	c.UseDialer(func(ihttp.Dialer) ihttp.Dialer {
		return &TestDialer{CombinedReadWriteCloser{
			Reader: strings.NewReader(""),
			Writer: writeRequest,
			Closer: writeRequest,
		}}
	})

	_, err := c.CtxDo(ctx, &ihttp.Request{
		Method: "POST",
		URL:    "http://www.example.com/",
		Body:   &cancelingBody{cancel: cancel},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	<-done
	if bytes.Contains(wire.Bytes(), []byte("post-cancel-data")) {
		t.Error("body bytes produced after cancellation reached the wire")
	}
}
