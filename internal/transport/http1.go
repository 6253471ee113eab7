package transport

import (
	"context"
	"io"

	"github.com/wireward/go-h1/internal/http"
)

// Write drives an [Encoder] to completion against w, checking ctx
// between write slices so a cancellation stops the encode even while
// the body keeps producing. it expects a blocking body source: a body
// that signals [ErrWouldBlock] is surfaced to the caller, since there
// is nothing to poll on here. use [Encoder] directly for non-blocking
// bodies.
func Write(ctx context.Context, w io.Writer, r *http.PreparedRequest) error {
	enc := NewEncoder(r)
	defer enc.Close() // request body is ALWAYS closed

	buf := make([]byte, 8192)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := enc.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
