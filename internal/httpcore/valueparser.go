package httpcore

// fvOpcode is one bit of the opcode bitmask the parser executes when the
// lexer takes a (from, to) transition, spec.md §4.D. Bits are executed
// low to high when set, matching the declared order below.
type fvOpcode uint16

const (
	opEscape      fvOpcode = 1 << iota // push value[mark:pos) to the escape-accumulation stack
	opMark                             // mark <- pos (or pos+1 when entering a quoted-string body)
	opComment                          // comment depth++
	opStartItem                        // ensure current element exists
	opPushToken                        // materialize value[mark:pos) as element/param value, or param name
	opPushQuoted                       // flush stack + trailing slice as a resolved quoted string
	opPushComment                      // comment depth--; caller snaps next state back to COMMENT if still > 0
	opSetParam                         // finalize current parameter as a bare attribute
	opEndItem                          // commit the current element into the staged list
	opReturn                           // after ESCAPE: next state becomes the enclosing QUOTED_STRING/COMMENT
)

// fvOpcodeTable is indexed by (from<<4)|to, spec.md §4.D's literal scheme;
// fvNumStates <= 16 so the pair fits in one byte.
var fvOpcodeTable [256]fvOpcode

func fvOpIndex(from, to fvState) int { return int(from)<<4 | int(to) }

func buildOpcodeTable() {
	set := func(from, to fvState, ops fvOpcode) { fvOpcodeTable[fvOpIndex(from, to)] |= ops }

	// A new bare token starting an element.
	for _, from := range []fvState{fvOWS, fvListDelim, fvCommentClose} {
		set(from, fvToken, opStartItem|opMark)
		set(from, fvQuotedBegin, opStartItem|opMark)
	}
	// A parameter value: same destinations, no new element.
	set(fvParamValue, fvToken, opMark)
	set(fvParamValue, fvQuotedBegin, opMark)
	// A parameter name token.
	set(fvParameter, fvParamName, opMark)

	// Leaving a bare token (element value, param value, or - caught below - param name).
	for _, to := range []fvState{fvOWS, fvListDelim, fvParameter, fvCommentOpen} {
		set(fvToken, to, opPushToken)
	}
	// Leaving a parameter name: '=' pushes it as a pending name, anything
	// else finalizes it as a bare attribute.
	set(fvParamName, fvParamValue, opPushToken)
	for _, to := range []fvState{fvOWS, fvListDelim, fvParameter, fvCommentOpen} {
		set(fvParamName, to, opSetParam)
	}

	// Closing a quoted-string.
	set(fvQuotedBegin, fvQuotedEnd, opPushQuoted)
	set(fvQuoted, fvQuotedEnd, opPushQuoted)

	// Escaping inside a quoted-string or a comment.
	for _, from := range []fvState{fvQuotedBegin, fvQuoted, fvCommentOpen, fvComment} {
		set(from, fvEscape, opEscape)
	}
	set(fvEscape, fvQuoted, opReturn) // table default target; VM retargets to fvComment when needed

	// Opening and closing a comment level.
	for _, from := range []fvState{fvOWS, fvListDelim, fvQuotedEnd, fvCommentOpen, fvComment, fvCommentClose, fvToken, fvParamName} {
		set(from, fvCommentOpen, opComment)
	}
	set(fvCommentOpen, fvCommentClose, opPushComment)
	set(fvComment, fvCommentClose, opPushComment)

	// Any transition landing on LIST_DELIMITER commits the pending element,
	// if any (a no-op when there is none, e.g. consecutive commas).
	for from := fvState(0); from < fvState(fvNumStates); from++ {
		fvOpcodeTable[fvOpIndex(from, fvListDelim)] |= opEndItem
	}
}

// commentNode tracks one open comment level while scanning, so nested
// comments build Comment.Children iteratively instead of recursively
// (design notes §9).
type commentNode struct {
	mark     int
	parent   *commentNode
	children []Comment
}

// ParseFieldValue implements the structured field-value parser, spec.md
// §4.C/§4.D, over one already-lexically-delimited field value (one
// comma-separated list, i.e. one value as received on the wire — a field
// received N times is N separate calls, aggregated by Field.ensureParsed).
//
// ok is false when the lexer hits ERROR, or when the escape-accumulator or
// comment-nesting abuse limits are exceeded; the caller drops the whole
// value in that case (spec.md §7). When ok is true, elements may still be
// empty: a downgraded value (spec.md §4.D invariant) lexes fine but
// contributes no structured elements.
func ParseFieldValue(raw string, cfg Config) (elements []Element, ok bool) {
	ensureFieldValueTables()

	state := fvOWS
	mark := 0
	var stack []string
	var curElement *Element
	var pendingParamName string
	var havePendingParamName bool
	var top *commentNode
	var escapeFrom fvState // state that entered the current ESCAPE
	depth := 0
	downgraded := false

	flushStack := func(endAt int) string {
		if len(stack) == 0 {
			return raw[mark:endAt]
		}
		s := ""
		for _, chunk := range stack {
			s += chunk
		}
		s += raw[mark:endAt]
		stack = nil
		return s
	}

	pos := 0
	for {
		if downgraded {
			// CONTENT mode: stop structural interpretation, keep lexing so the
			// lexer-acceptance verdict (for raw) is still meaningful.
			state = fvContent
		}
		if pos == len(raw) {
			break
		}
		b := raw[pos]
		next := fvLexTable[fvIndex(state, b)]
		if next == fvError {
			return nil, false
		}
		ops := fvOpcodeTable[fvOpIndex(state, next)]

		if ops&opComment != 0 {
			depth++
			if depth > cfg.FieldValueParserCommentDepthLimit {
				return nil, false
			}
			node := &commentNode{mark: pos + 1, parent: top}
			top = node
		}
		if ops&opMark != 0 {
			if next == fvQuotedBegin {
				mark = pos + 1
				stack = nil // a new quoted-string starts with an empty escape stack
			} else {
				mark = pos
			}
		}
		if ops&opEscape != 0 {
			stack = append(stack, raw[mark:pos])
			escapeFrom = state
			if len(stack) > cfg.FieldValueParserStackSizeLimit {
				return nil, false
			}
		}
		if ops&opStartItem != 0 {
			if curElement != nil && curElement.HasValue {
				// A second bare token/quoted-string appeared where only a
				// parameter was expected: downgrade for the rest of this
				// value. staged_elements (both the committed list and the
				// in-progress element) are discarded, per spec.
				downgraded = true
				curElement = nil
				elements = nil
			} else if curElement == nil {
				curElement = &Element{}
			}
		}
		if ops&opPushToken != 0 {
			text := raw[mark:pos]
			switch {
			case state == fvParamName:
				pendingParamName, havePendingParamName = text, true
			case havePendingParamName: // leaving a parameter-value token
				if curElement != nil {
					curElement.Params = append(curElement.Params, Parameter{Name: pendingParamName, Value: text, HasValue: true})
				}
				havePendingParamName = false
			default: // state == fvToken entered from an element-value context
				if curElement == nil {
					curElement = &Element{}
				}
				curElement.Value, curElement.HasValue = text, true
			}
		}
		if ops&opPushQuoted != 0 {
			text := flushStack(pos)
			if havePendingParamName {
				if curElement != nil {
					curElement.Params = append(curElement.Params, Parameter{Name: pendingParamName, Value: text, HasValue: true})
				}
				havePendingParamName = false
			} else {
				if curElement == nil {
					curElement = &Element{}
				}
				curElement.Value, curElement.HasValue = text, true
			}
		}
		if ops&opPushComment != 0 {
			if node := top; node != nil {
				c := Comment{Text: raw[node.mark:pos], Children: node.children}
				top = node.parent
				depth--
				if curElement == nil {
					curElement = &Element{}
				}
				if top != nil {
					top.children = append(top.children, c)
				} else {
					curElement.Comments = append(curElement.Comments, c)
				}
			} else {
				depth--
			}
			if depth > 0 {
				next = fvComment
				mark = pos + 1
			}
		}
		if ops&opSetParam != 0 {
			if curElement != nil {
				curElement.Params = append(curElement.Params, Parameter{Name: raw[mark:pos], HasValue: false})
			}
		}
		if ops&opReturn != 0 {
			if escapeFrom == fvCommentOpen || escapeFrom == fvComment {
				next = fvComment
			} else {
				next = fvQuoted
			}
			mark = pos // keep the escaped byte itself in the resolved value
		}
		if ops&opEndItem != 0 {
			if curElement != nil {
				elements = append(elements, *curElement)
				curElement = nil
			}
		}

		state = next
		pos++
	}

	runFinalOpcodes(raw, state, pos, mark, &stack, curElement, &elements, &pendingParamName, &havePendingParamName, depth, cfg)
	return elements, fvAccepting[state] || state == fvContent
}

// runFinalOpcodes implements the final-opcode table, spec.md §4.D: when
// input is exhausted it closes a pending token, quoted-string, comment, or
// parameter rather than leaving it dangling.
func runFinalOpcodes(raw string, state fvState, pos, mark int, stack *[]string, curElement *Element, elements *[]Element, pendingParamName *string, havePendingParamName *bool, depth int, cfg Config) {
	switch state {
	case fvToken:
		text := raw[mark:pos]
		if *havePendingParamName {
			if curElement != nil {
				curElement.Params = append(curElement.Params, Parameter{Name: *pendingParamName, Value: text, HasValue: true})
			}
		} else {
			if curElement == nil {
				curElement = &Element{}
			}
			curElement.Value, curElement.HasValue = text, true
		}
	case fvParamName:
		if curElement != nil {
			curElement.Params = append(curElement.Params, Parameter{Name: raw[mark:pos], HasValue: false})
		}
	case fvCommentOpen:
		// an empty trailing comment, implicitly closed at EOF
	}
	if curElement != nil {
		*elements = append(*elements, *curElement)
	}
}
