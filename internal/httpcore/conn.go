package httpcore

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// connState is one of the five states spec.md §3/§4.J defines for the
// connection driver.
type connState int

const (
	stateStartLine connState = iota
	stateHeaderField
	stateTrailerField // reserved: trailer collection happens inside ChunkIterator, see body.go
	stateResponse
	stateClosed
)

// Driver is the connection driver, component J: it orchestrates A-I over
// one accepted connection from its first byte to its last, exactly once
// (spec.md §1's one-shot-per-connection core).
type Driver struct {
	in     Input
	out    Output
	router *Router
	cfg    Config
	logger *Logger
	state  connState

	// raw is the underlying duplex stream, when the listener adapter has
	// one (a net.Conn under TCPListener; nil under StdioListener, where
	// stdin/stdout are two separate streams with no single net.Conn to
	// hand a protocol-upgrade handler). See BodyWriter.
	raw io.ReadWriter
}

// NewDriver returns a Driver ready to serve one connection. raw may be nil;
// see Driver.raw.
func NewDriver(in Input, out Output, router *Router, cfg Config, logger *Logger, raw io.ReadWriter) *Driver {
	return &Driver{in: in, out: out, router: router, cfg: cfg, logger: logger, state: stateStartLine, raw: raw}
}

// Serve runs the state machine to completion: one request in, one response
// out, then CLOSED. It never returns an error to the caller — every
// failure this core can recognize is itself mapped to a response and a
// WARN/ERROR log line, per the table in spec.md §7; only a dead input
// stream (EOF, reset) ends the attempt with nothing written.
func (d *Driver) Serve() {
	req, ok := d.readStartLine()
	if !ok {
		d.state = stateClosed
		return
	}
	d.state = stateHeaderField

	if !d.readHeaderFields(req) {
		d.state = stateClosed
		return
	}

	resp, handlerErr := d.runBody(req)
	if handlerErr == nil {
		d.state = stateResponse
		resp, handlerErr = d.route(req)
	}
	if handlerErr != nil {
		resp = d.errorResponse(handlerErr)
	}

	// This driver has no persistent-connection variant (spec.md §1), so it
	// always closes after the response it just produced.
	if _, err := WriteResponse(d.out, resp, req.Method == "HEAD", true, d.in, d.raw); err != nil {
		d.logger.Errorf("write response failed: %v", err)
	}
	d.state = stateClosed
}

// readStartLine implements the START_LINE state: it waits (tolerantly)
// through any number of malformed or blank lines until one parses, per
// spec.md §4.B.
func (d *Driver) readStartLine() (*Request, bool) {
	for {
		line, err := d.in.ReadLine()
		if err != nil {
			return nil, false
		}
		d.logger.TraceLine('>', line)
		rl := ParseRequestLine(dropLF(line))
		if rl.ProtocolError {
			d.logger.Warnf("malformed start-line %q", trimCRLF(line))
			continue
		}
		return &Request{
			Method:  rl.Method,
			Path:    rl.Path,
			Params:  ParseQueryString(rl.RawQuery),
			Version: "HTTP/1.1",
			Headers: NewFieldStore(),
		}, true
	}
}

// readHeaderFields implements the HEADER_FIELD state: field lines
// accumulate into req.Headers (Cookie routes to the dedicated parser,
// component F) until a blank CRLF line ends the section.
func (d *Driver) readHeaderFields(req *Request) bool {
	sawCookie := false
	for {
		line, err := d.in.ReadLine()
		if err != nil {
			return false
		}
		d.logger.TraceLine('>', line)
		trimmed := trimCRLF(line)
		if len(trimmed) == 0 {
			return true
		}
		name, value, ok := parseFieldLine(trimmed)
		if !ok {
			d.logger.Warnf("malformed header-line %q", trimmed)
			continue
		}
		if strings.EqualFold(name, "Cookie") {
			if sawCookie {
				continue // only the first Cookie header is honored
			}
			sawCookie = true
			if cookies, ok := ParseCookieHeader(value); ok {
				req.Cookies = cookies
			} else {
				d.logger.Warnf("malformed Cookie header %q", value)
			}
			continue
		}
		req.Headers.Add(name, value)
	}
}

// runBody implements spec.md §4.G's selection rule, picking between the
// chunked decoder, a fixed-length read, or no body at all.
func (d *Driver) runBody(req *Request) (*Response, error) {
	if te, ok := req.Headers.Get("Transfer-Encoding"); ok {
		elems := te.Elements(d.cfg)
		if len(elems) == 0 || !strings.EqualFold(elems[len(elems)-1].Value, "chunked") {
			return nil, errUnsupportedTransferEncoding
		}
		req.Body = NewChunkIterator(d.in, d.cfg, d.logger)
		return nil, nil
	}

	if cl, ok := req.Headers.Get("Content-Length"); ok {
		raw := cl.Raw(d.cfg)
		if len(raw) == 0 {
			return nil, errInvalidContentLength
		}
		length, err := strconv.ParseInt(raw[len(raw)-1], 10, 64)
		if err != nil || length < 0 {
			return nil, errInvalidContentLength
		}
		body, err := ReadFixedBody(d.in, length)
		if err != nil {
			return nil, errBodyReadFailed
		}
		req.Body = body
		return nil, nil
	}

	return nil, nil
}

// route implements the dispatch step between components H and the
// handler, including the 501/404 fallbacks and the handler-panic recovery
// spec.md §7 requires.
func (d *Driver) route(req *Request) (resp *Response, err error) {
	handler, matches, status := d.router.Dispatch(req.Method, req.Path)
	req.Matches = matches

	switch status {
	case RouteMethodUnknown:
		d.logger.Infof("%s %s: no routes for method", req.Method, req.Path)
		return textResponse(501, "Not Implemented", "not implemented"), nil
	case RouteNoMatch:
		d.logger.Infof("%s %s: no pattern matched", req.Method, req.Path)
		return textResponse(404, "Not Found", "not found"), nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Errorf("handler panicked for %s %s: %v", req.Method, req.Path, rec)
			err = errHandlerPanicked
		}
	}()
	return handler(req), nil
}

func (d *Driver) errorResponse(err error) *Response {
	ce, ok := err.(*coreError)
	if !ok {
		ce = errHandlerPanicked
	}
	d.logger.logf(ce.level, "%s", ce.reason)
	return textResponse(ce.status, statusReason(ce.status), ce.body)
}

func textResponse(status int, reason, body string) *Response {
	resp := NewResponse(status, reason)
	resp.Body = []byte(body)
	return resp
}

func statusReason(status int) string {
	switch status {
	case 400:
		return "Bad Request"
	case 500:
		return "Internal Server Error"
	default:
		return fmt.Sprintf("%d", status)
	}
}
