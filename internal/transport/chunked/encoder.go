package chunked

import (
	"bytes"
	"io"
)

// NewEncodingReader turns src into its chunk-framed form: every slice
// read from src comes out prefixed with its hex length and CRLF and
// followed by CRLF, and the end of src is followed by the zero-length
// final chunk. the reader pulls, so it fits poll-style consumers: a
// non-EOF error from src with no bytes is returned as-is, letting
// would-block sentinels pass through untouched.
func NewEncodingReader(src io.Reader) io.Reader {
	r := &encodingReader{src: src, buf: make([]byte, 4096)}
	r.w = NewChunkedWriter(&r.wire)
	return r
}

type encodingReader struct {
	src io.Reader
	buf []byte

	wire bytes.Buffer // framed bytes awaiting copy-out
	w    *chunkedWriter

	srcErr error // deferred error from a read that also produced data
	done   bool
}

func (c *encodingReader) Read(p []byte) (int, error) {
	for {
		if c.wire.Len() > 0 {
			n, _ := c.wire.Read(p)
			return n, nil
		}
		if c.srcErr != nil {
			err := c.srcErr
			c.srcErr = nil
			return 0, err
		}
		if c.done {
			return 0, io.EOF
		}
		n, err := c.src.Read(c.buf)
		if n > 0 {
			// framing into the wire buffer cannot fail
			c.w.Write(c.buf[:n])
		}
		switch {
		case err == io.EOF:
			c.w.Close()
			c.done = true
		case err != nil:
			if n == 0 {
				return 0, err
			}
			c.srcErr = err
		}
	}
}
