// Package httpcore implements a minimal HTTP/1.1 origin server core: request
// parsing, RFC 9110 structured field values, cookies, chunked bodies,
// routing, and response serialization, driven one connection at a time.
//
// The core has no opinion on how a connection arrives. A supervisor (not
// part of this package) accepts a socket, optionally terminates TLS, and
// hands the core a read/write byte stream. The core reads exactly one
// request from that stream, dispatches it to a registered handler, writes
// the response, and is then done with the connection.
package httpcore
