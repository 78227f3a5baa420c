package httpcore

import (
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"
)

// ResponseFields is the response-side field wrapper spec.md §4.E describes:
// case-insensitive lookup over list-form values, letting a handler add
// "Connection: close" idempotently without caring what case a previous
// caller used. Unlike Field (component E), values are never lexed — the
// handler supplies them pre-formatted.
type ResponseFields struct {
	order   []string // canonical (first-used) case, first-seen order
	byLower map[string][]string
	casing  map[string]string // lowercase -> first-used case
}

// NewResponseFields returns an empty wrapper.
func NewResponseFields() *ResponseFields {
	return &ResponseFields{byLower: make(map[string][]string), casing: make(map[string]string)}
}

func (f *ResponseFields) remember(name string) string {
	key := strings.ToLower(name)
	if _, ok := f.casing[key]; !ok {
		f.casing[key] = name
		f.order = append(f.order, key)
	}
	return key
}

// Set replaces any existing values for name with the single value v.
func (f *ResponseFields) Set(name, v string) {
	key := f.remember(name)
	f.byLower[key] = []string{v}
}

// Add appends v to name's value list, preserving earlier values — the
// mechanism behind spec.md §4.I's "repeated headers" rule.
func (f *ResponseFields) Add(name, v string) {
	key := f.remember(name)
	f.byLower[key] = append(f.byLower[key], v)
}

// Get returns every value for name, case-insensitively.
func (f *ResponseFields) Get(name string) ([]string, bool) {
	v, ok := f.byLower[strings.ToLower(name)]
	return v, ok
}

// Has reports whether name was set at all.
func (f *ResponseFields) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// ContainsValue reports whether any of name's values equals v exactly —
// spec.md §4.E's "contains_value that inspects unparsed list-form values."
func (f *ResponseFields) ContainsValue(name, v string) bool {
	values, ok := f.Get(name)
	if !ok {
		return false
	}
	for _, got := range values {
		if got == v {
			return true
		}
	}
	return false
}

// Names returns every field name in the case it was first set, in
// first-seen order.
func (f *ResponseFields) Names() []string {
	names := make([]string, len(f.order))
	for i, key := range f.order {
		names[i] = f.casing[key]
	}
	return names
}

// httpDateLayout is RFC 9110 §5.6.7's IMF-fixdate, the one HTTP-date form
// this core emits. time.RFC1123 renders the zone abbreviation of whatever
// *Location it's given ("UTC" for time.Now().UTC()), not the literal "GMT"
// HTTP requires, so the layout is spelled out instead of reusing it.
const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// BodyWriter is the streaming-body contract spec.md §4.I/§9 describes: once
// invoked, the handler owns the connection until the function returns,
// applying no further automatic framing. in and raw are spec.md §6's
// "connection object" cut down to what a one-shot core can actually offer a
// handler beyond out: in lets a handler read further framed data the core
// itself has no opinion about (a WebSocket frame stream); raw is the
// underlying duplex stream itself (nil under the stdio listener, where no
// single net.Conn exists to hand over) for libraries that need to own the
// connection directly, such as a WebSocket upgrader that hijacks it. This is
// the hook protocol upgrades are built on.
type BodyWriter func(out Output, in Input, raw io.ReadWriter) error

// Response is the object a Handler returns, spec.md §3.
type Response struct {
	Status      int
	Reason      string
	Headers     *ResponseFields
	Cookies     map[string]string // cookie name -> pre-formatted "name=value; attr..." value
	cookieOrder []string

	// Body is exactly one of: nil, []byte, or BodyWriter.
	Body any
}

// NewResponse returns a Response with empty header/cookie maps, ready for a
// handler to fill in.
func NewResponse(status int, reason string) *Response {
	return &Response{Status: status, Reason: reason, Headers: NewResponseFields(), Cookies: make(map[string]string)}
}

// SetCookie records a pre-formatted Set-Cookie value under name, replacing
// any previous value for that name — spec.md §4.I's "at most one
// Set-Cookie per cookie name."
func (r *Response) SetCookie(name, formatted string) {
	if _, exists := r.Cookies[name]; !exists {
		r.cookieOrder = append(r.cookieOrder, name)
	}
	r.Cookies[name] = formatted
}

// suppressesBody reports whether status alone forbids a body, per
// spec.md §4.I's "1xx/204/304: no body unless status is 101 and body is a
// writer."
func suppressesBody(status int) bool {
	return (status >= 100 && status < 200) || status == 204 || status == 304
}

var bufferPool bytebufferpool.Pool

// WriteResponse serializes resp to out following spec.md §4.I's order:
// status line, headers, cookies, blank line, body. headMethod suppresses
// body emission unconditionally (RFC 9110 §9.3.2). The status line and
// header block are assembled in a pooled buffer (replacing gorox's
// hand-rolled arena growth in helper.go with the domain-stack's pooling
// library for the same concern) before a single Write call.
//
// driverWillClose tells WriteResponse that the caller (component J) has
// already decided, independent of anything in resp, that the connection is
// going away after this response — true for every request this one-shot
// core ever serves (spec.md §1: no persistent-connection variant exists
// yet). It returns whether the connection must close after this response,
// per the Connection: close rules in spec.md §4.I/§4.J.
func WriteResponse(out Output, resp *Response, headMethod bool, driverWillClose bool, in Input, raw io.ReadWriter) (mustClose bool, err error) {
	_, isWriter := resp.Body.(BodyWriter)
	isUpgrade := resp.Status == 101 && isWriter
	// A writer body with no chunked framing and no upgrade has no way to
	// signal its own end short of closing, regardless of what the driver
	// would otherwise have decided.
	forcedByBody := isWriter && !isUpgrade
	mustClose = (driverWillClose && !isUpgrade) || forcedByBody || resp.Headers.ContainsValue("Connection", "close")

	if isUpgrade {
		// A 101 response hands the whole wire output to the body writer,
		// status line and headers included: examples/echo drives the
		// handshake through gorilla/websocket's Upgrader, which writes its
		// own complete response once it hijacks the connection. Anything
		// written here would duplicate it.
		if err = out.Flush(); err != nil {
			return mustClose, err
		}
		if body, ok := resp.Body.(BodyWriter); ok {
			err = body(out, in, raw)
		}
		if err != nil {
			return mustClose, err
		}
		return mustClose, out.Flush()
	}

	if !resp.Headers.Has("Date") {
		resp.Headers.Set("Date", time.Now().UTC().Format(httpDateLayout))
	}
	bodyBytes, isFixed := resp.Body.([]byte)
	if isFixed && !resp.Headers.Has("Content-Length") {
		resp.Headers.Set("Content-Length", strconv.Itoa(len(bodyBytes)))
	}
	if mustClose && !resp.Headers.Has("Connection") {
		resp.Headers.Set("Connection", "close")
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	buf.WriteString("HTTP/1.1 ")
	buf.WriteString(strconv.Itoa(resp.Status))
	buf.WriteByte(' ')
	buf.WriteString(resp.Reason)
	buf.WriteString("\r\n")

	for _, name := range resp.Headers.Names() {
		values, _ := resp.Headers.Get(name)
		for _, v := range values {
			buf.WriteString(name)
			buf.WriteString(": ")
			buf.WriteString(v)
			buf.WriteString("\r\n")
		}
	}
	for _, name := range resp.cookieOrder {
		buf.WriteString("Set-Cookie: ")
		buf.WriteString(resp.Cookies[name])
		buf.WriteString("\r\n")
	}
	for name, v := range resp.Cookies { // entries filled in without SetCookie
		if !slices.Contains(resp.cookieOrder, name) {
			buf.WriteString("Set-Cookie: ")
			buf.WriteString(v)
			buf.WriteString("\r\n")
		}
	}
	buf.WriteString("\r\n")

	if _, err = out.Write(buf.B); err != nil {
		return mustClose, err
	}

	suppressBody := headMethod || suppressesBody(resp.Status)
	switch body := resp.Body.(type) {
	case nil:
		// no body
	case []byte:
		if !suppressBody {
			if _, err = out.Write(body); err != nil {
				return mustClose, err
			}
		}
	case BodyWriter:
		if !suppressBody {
			if err = body(out, in, raw); err != nil {
				return mustClose, err
			}
		}
	}

	return mustClose, out.Flush()
}
