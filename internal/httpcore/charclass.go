package httpcore

// Byte-classification tables, one bit test per byte instead of a chain of
// comparisons. Built the way gorox's http.go builds httpTchar/httpVchar/
// httpKchar: a [256]bool indexed directly by the byte value.

// isTchar reports whether b is a tchar, the RFC 9110 token character class:
// ALPHA / DIGIT / "!" "#" "$" "%" "&" "'" "*" "+" "-" "." "^" "_" "`" "|" "~".
var tcharTable = buildTcharTable()

func buildTcharTable() [256]bool {
	var t [256]bool
	for b := 'a'; b <= 'z'; b++ {
		t[b] = true
	}
	for b := 'A'; b <= 'Z'; b++ {
		t[b] = true
	}
	for b := '0'; b <= '9'; b++ {
		t[b] = true
	}
	for _, b := range []byte("!#$%&'*+-.^_`|~") {
		t[b] = true
	}
	return t
}

func isTchar(b byte) bool { return tcharTable[b] }

// isValueTchar extends isTchar with '/' for the structured field-value
// lexer only. RFC 9110 §5.6.2's strict tchar grammar excludes '/', but
// media-type element values ("text/plain", "text/html;q=0.8") are
// pervasive in practice (Accept, Content-Type) and must lex as a single
// token value rather than erroring on the slash. Field *names* keep the
// strict tchar class; see fieldline.go's header-name scan.
func isValueTchar(b byte) bool { return b == '/' || isTchar(b) }

// isVchar reports whether b is visible-ASCII-or-obs-text field content:
// (b >= 0x21 && b <= 0x7E) || b >= 0x80, per RFC 9110 field-content.
func isVchar(b byte) bool { return (b >= 0x21 && b <= 0x7E) || b >= 0x80 }

// isOWS reports whether b is optional whitespace: SP or HTAB.
func isOWS(b byte) bool { return b == ' ' || b == '\t' }

// isWSPVchar reports whether b may follow a backslash escape inside a
// quoted-string or comment: SP, HTAB, VCHAR, or obs-text.
func isWSPVchar(b byte) bool { return isOWS(b) || isVchar(b) }

// kcharTable implements cookie-octet from RFC 6265 §4.1.1:
// %x21 / %x23-2B / %x2D-3A / %x3C-5B / %x5D-7E, i.e. every VCHAR except
// DQUOTE, comma, semicolon, and backslash. Grounded on gorox's httpKchar.
var kcharTable = buildKcharTable()

func buildKcharTable() [256]bool {
	var t [256]bool
	for b := 0x21; b <= 0x7E; b++ {
		t[b] = true
	}
	for _, b := range []byte{'"', ',', ';', '\\'} {
		t[b] = false
	}
	return t
}

func isKchar(b byte) bool { return kcharTable[b] }

// isDigit reports whether b is an ASCII decimal digit.
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isHexDigit reports whether b is an ASCII hex digit.
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// isPrintRequestTarget reports whether b is a valid byte of a request
// method or request-target in the sense spec.md §4.B requires: VCHAR,
// i.e. [!-~].
func isPrintRequestTarget(b byte) bool { return b >= '!' && b <= '~' }
