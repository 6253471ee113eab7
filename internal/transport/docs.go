// package transport contains implementations to requirements on *message syntaxes*
// defined by http related RFCs, on the request producing side only.
//
// as of 2022.06, RFCs that were to define HTTP/1.1 (RFC753x) are obsoleted by:
//
//	HTTP Semantics (RFC9110)
//	HTTP Caching (RFC9111) and
//	HTTP/1.1 (RFC9112)
//
// the request-target forms follow RFC9110 section 7.1 (formerly RFC7231):
// origin-form for ordinary methods, authority-form for CONNECT.
//
// net/http components are reused on the "semantics" part ([net/url.URL], [net/http.Header], etc.)
package transport
