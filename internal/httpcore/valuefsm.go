package httpcore

import "sync"

// fvState is one state of the structured field-value lexer, spec.md §4.C.
// Values are small enough (< 16) that a (fvState, fvState) pair packs into
// a single nibble-pair byte, the way the opcode table in valueparser.go
// indexes on (from<<4)|to.
type fvState uint8

const (
	fvOWS          fvState = iota // optional whitespace between items
	fvToken                       // inside a bare token (also reused for parameter values)
	fvListDelim                   // just consumed a top-level ','
	fvQuotedBegin                 // just consumed the opening '"'
	fvQuoted                      // inside a quoted-string body
	fvQuotedEnd                   // just consumed the closing '"'
	fvEscape                      // just consumed '\' inside a quoted-string or comment
	fvCommentOpen                 // just consumed a '(' that opened a comment level
	fvComment                     // inside a comment body
	fvCommentClose                // just consumed a ')' that closed a comment level
	fvParameter                   // just consumed ';', before a parameter name
	fvParamName                   // inside a parameter name token
	fvParamValue                  // just consumed '=', before a parameter value
	fvContent                     // fallback: unstructured field-content (RFC 9110 default production)
	fvError                       // halts the FSM
	fvNumStates            = int(fvError) + 1
)

// fvAccepting is the accepting set from spec.md §4.C: every state except
// the _BEGIN, mid-string, mid-comment, ESCAPE, PARAMETER_VALUE, CONTENT,
// and ERROR states. A value ending in an accepting state is structurally
// complete; runFinalOpcodes still has to close whatever construct was left
// open (a trailing token, an empty trailing comment, ...).
var fvAccepting = [fvNumStates]bool{
	fvOWS:          true,
	fvToken:        true,
	fvListDelim:    true,
	fvQuotedBegin:  false,
	fvQuoted:       false,
	fvQuotedEnd:    true,
	fvEscape:       false,
	fvCommentOpen:  true,
	fvComment:      false,
	fvCommentClose: true,
	fvParameter:    true,
	fvParamName:    true,
	fvParamValue:   false,
	fvContent:      false,
	fvError:        false,
}

// fvLexTable is indexed by (state<<8)|byte, spec.md §4.C's literal scheme.
// Built once, lazily, on first field parse (§5, §9: a one-time
// initialization not guarded by a lock in the single-threaded-per-process
// model; here the core may in practice share a process with the dev
// listener's goroutines, so a sync.Once protects it).
var (
	fvLexTable     [fvNumStates * 256]fvState
	fvLexTableOnce sync.Once
)

func fvIndex(state fvState, b byte) int { return int(state)<<8 | int(b) }

func ensureFieldValueTables() {
	fvLexTableOnce.Do(func() {
		buildFieldValueTables()
		buildOpcodeTable()
	})
}

func buildFieldValueTables() {
	for i := range fvLexTable {
		fvLexTable[i] = fvError
	}
	set := func(state fvState, bytes []byte, to fvState) {
		for _, b := range bytes {
			fvLexTable[fvIndex(state, b)] = to
		}
	}
	setClass := func(state fvState, class func(byte) bool, to fvState) {
		for b := 0; b < 256; b++ {
			if class(byte(b)) {
				fvLexTable[fvIndex(state, byte(b))] = to
			}
		}
	}

	// fvOWS: start of an item, or whitespace between items.
	setClass(fvOWS, isVchar, fvContent) // field-content fallback, §4.C default; overridden below
	setClass(fvOWS, isOWS, fvOWS)
	setClass(fvOWS, isValueTchar, fvToken)
	set(fvOWS, []byte{'"'}, fvQuotedBegin)
	set(fvOWS, []byte{'('}, fvCommentOpen)
	set(fvOWS, []byte{','}, fvListDelim)
	set(fvOWS, []byte{';'}, fvParameter)

	// fvToken: bare token, or a parameter value token (context tracked by the VM).
	setClass(fvToken, isValueTchar, fvToken)
	setClass(fvToken, isOWS, fvOWS)
	set(fvToken, []byte{','}, fvListDelim)
	set(fvToken, []byte{';'}, fvParameter)
	set(fvToken, []byte{'('}, fvCommentOpen)
	set(fvToken, []byte{'='}, fvError) // only PARAMETER_NAME may transition on '='

	// fvListDelim: just saw ',' at the top level.
	setClass(fvListDelim, isOWS, fvOWS)
	setClass(fvListDelim, isValueTchar, fvToken)
	set(fvListDelim, []byte{'"'}, fvQuotedBegin)
	set(fvListDelim, []byte{'('}, fvCommentOpen)
	set(fvListDelim, []byte{','}, fvListDelim) // empty list items

	// fvQuotedBegin / fvQuoted: quoted-string body (qdtext or escape).
	setClass(fvQuotedBegin, isWSPVchar, fvQuoted)
	set(fvQuotedBegin, []byte{'"'}, fvQuotedEnd) // ""
	set(fvQuotedBegin, []byte{'\\'}, fvEscape)
	setClass(fvQuoted, isWSPVchar, fvQuoted)
	set(fvQuoted, []byte{'"'}, fvQuotedEnd)
	set(fvQuoted, []byte{'\\'}, fvEscape)

	// fvQuotedEnd: just closed a quoted-string.
	setClass(fvQuotedEnd, isOWS, fvOWS)
	set(fvQuotedEnd, []byte{','}, fvListDelim)
	set(fvQuotedEnd, []byte{';'}, fvParameter)
	set(fvQuotedEnd, []byte{'('}, fvCommentOpen)

	// fvEscape: exactly one WSP/VCHAR/obs-text byte, then RETURN snaps the
	// next state back to the enclosing QUOTED_STRING or COMMENT (the VM
	// decides which; the table default is fvQuoted).
	setClass(fvEscape, isWSPVchar, fvQuoted)

	// fvCommentOpen / fvComment: comment body (ctext or escape), arbitrary nesting.
	setClass(fvCommentOpen, isWSPVchar, fvComment)
	set(fvCommentOpen, []byte{')'}, fvCommentClose)
	set(fvCommentOpen, []byte{'('}, fvCommentOpen)
	set(fvCommentOpen, []byte{'\\'}, fvEscape)
	setClass(fvComment, isWSPVchar, fvComment)
	set(fvComment, []byte{')'}, fvCommentClose)
	set(fvComment, []byte{'('}, fvCommentOpen)
	set(fvComment, []byte{'\\'}, fvEscape)

	// fvCommentClose: just closed one level; the parser may snap this back
	// to fvComment if nesting depth is still positive (design notes §9).
	setClass(fvCommentClose, isOWS, fvOWS)
	setClass(fvCommentClose, isValueTchar, fvToken)
	set(fvCommentClose, []byte{';'}, fvParameter)
	set(fvCommentClose, []byte{','}, fvListDelim)
	set(fvCommentClose, []byte{'('}, fvCommentOpen)

	// fvParameter: just saw ';', OWS allowed before the parameter name.
	setClass(fvParameter, isOWS, fvParameter)
	setClass(fvParameter, isTchar, fvParamName)

	// fvParamName: parameter-name token, or a bare attribute with no '='.
	setClass(fvParamName, isTchar, fvParamName)
	set(fvParamName, []byte{'='}, fvParamValue)
	set(fvParamName, []byte{';'}, fvParameter)   // bare attribute, another param follows
	set(fvParamName, []byte{','}, fvListDelim)   // bare attribute, list continues
	set(fvParamName, []byte{'('}, fvCommentOpen) // bare attribute, comment follows
	setClass(fvParamName, isOWS, fvOWS)          // bare attribute, OWS follows

	// fvParamValue: right after '=', a token or a quoted-string.
	setClass(fvParamValue, isValueTchar, fvToken)
	set(fvParamValue, []byte{'"'}, fvQuotedBegin)

	// fvContent: unstructured fallback, consumes the remainder of the value.
	setClass(fvContent, isWSPVchar, fvContent)
}
