package internal_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/wireward/go-h1/internal"
	"github.com/wireward/go-h1/internal/http"
)

type CombinedReadWriteCloser struct {
	io.Reader
	io.Writer
	io.Closer
}

type TestDialer struct {
	io.ReadWriteCloser
}

// Dial implements http.Dialer.
func (t *TestDialer) Dial(ctx context.Context, r *http.PreparedRequest) (io.ReadWriteCloser, error) {
	return t.ReadWriteCloser, nil
}

// Unwrap implements http.Dialer.
func (t *TestDialer) Unwrap() http.Dialer {
	return nil
}

// SendSingleRequest runs req through a client wired to an in-memory
// connection and returns the reader the encoded request comes out of.
func SendSingleRequest(t *testing.T, req *http.Request) io.Reader {
	readRequest, writeRequest := io.Pipe()
	c := &internal.Client{}
	c.UseDialer(func(http.Dialer) http.Dialer {
		return &TestDialer{CombinedReadWriteCloser{
			Reader: strings.NewReader(""),
			Writer: writeRequest,
			Closer: writeRequest,
		}}
	})
	go func() {
		stream, err := c.CtxDo(context.Background(), req)
		if err != nil {
			t.Error(err)
			writeRequest.CloseWithError(err)
			return
		}
		stream.Close()
	}()
	return readRequest
}
