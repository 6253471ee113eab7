package transport

import "errors"

// ErrWouldBlock reports that a read made no progress because the body
// source has no bytes available yet. it is not a failure: the caller
// retries the read once the source is ready again. body readers backed
// by non-blocking sources return it (possibly wrapped) to suspend the
// encode without ending it.
var ErrWouldBlock = errors.New("http1: encode would block")

var (
	// ErrMissingHost is returned when neither the request URL nor a
	// Host header carries a hostname. hosts are mandatory in HTTP/1.1.
	ErrMissingHost = errors.New("http1: missing hostname")

	// ErrNoConnectPort is returned for CONNECT requests whose target
	// URL has no port and whose scheme has no well-known one.
	ErrNoConnectPort = errors.New("http1: no resolvable port for CONNECT target")

	// ErrUnexpectedBodyEnd is returned when the body stream ends
	// before the declared content-length is reached.
	ErrUnexpectedBodyEnd = errors.New("http1: unexpected end of request body")

	// ErrBodyOverrun is returned when the body stream yields more
	// bytes than the declared content-length.
	ErrBodyOverrun = errors.New("http1: request body longer than content-length")
)
