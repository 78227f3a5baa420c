package httpcore

import "strings"

// RequestLine is the parsed `method SP target SP HTTP/1.1 CRLF` line.
type RequestLine struct {
	Method        string
	Path          string // percent-decoded target path
	RawQuery      string // the part after '?', not yet decoded
	ProtocolError bool
}

// ParseRequestLine implements spec.md §4.B. line must include the trailing
// CR but not the LF (the driver strips LF when it reads a line). It accepts
// exactly `^([!-~]+) ([!-~]+) (HTTP/1\.1)\r$`; anything else is reported via
// ProtocolError so the caller can WARN-log and keep waiting (tolerant of
// blank lines before a request, per §4.B).
func ParseRequestLine(line []byte) RequestLine {
	if len(line) == 0 || line[len(line)-1] != '\r' {
		return RequestLine{ProtocolError: true}
	}
	line = line[:len(line)-1]

	i := 0
	methodStart := i
	for i < len(line) && isPrintRequestTarget(line[i]) {
		i++
	}
	if i == methodStart || i == len(line) || line[i] != ' ' {
		return RequestLine{ProtocolError: true}
	}
	method := string(line[methodStart:i])
	i++ // skip SP

	targetStart := i
	for i < len(line) && isPrintRequestTarget(line[i]) {
		i++
	}
	if i == targetStart || i == len(line) || line[i] != ' ' {
		return RequestLine{ProtocolError: true}
	}
	target := string(line[targetStart:i])
	i++ // skip SP

	versionStart := i
	for i < len(line) && isPrintRequestTarget(line[i]) {
		i++
	}
	if i != len(line) || string(line[versionStart:i]) != "HTTP/1.1" {
		return RequestLine{ProtocolError: true}
	}

	path, rawQuery := target, ""
	if qm := strings.IndexByte(target, '?'); qm >= 0 {
		path, rawQuery = target[:qm], target[qm+1:]
	}

	return RequestLine{
		Method:   method,
		Path:     PercentDecode(path),
		RawQuery: rawQuery, // decoded per key/value by ParseQueryString (component A)
	}
}
