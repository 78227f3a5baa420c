package httpcore

// parseFieldLine parses one "field-name \":\" OWS field-value OWS" line
// (CRLF already stripped by the caller), the grammar spec.md §4.J's
// HEADER_FIELD/TRAILER_FIELD states both drive. ok is false for anything
// that doesn't match — callers WARN-log and ignore the line, per the error
// table in spec.md §7.
func parseFieldLine(line []byte) (name, value string, ok bool) {
	i := 0
	nameStart := i
	for i < len(line) && isTchar(line[i]) {
		i++
	}
	if i == nameStart || i == len(line) || line[i] != ':' {
		return "", "", false
	}
	name = string(line[nameStart:i])
	i++ // skip ':'

	for i < len(line) && isOWS(line[i]) {
		i++
	}
	valueStart := i
	valueEnd := len(line)
	for valueEnd > valueStart && isOWS(line[valueEnd-1]) {
		valueEnd--
	}
	for j := valueStart; j < valueEnd; j++ {
		if !isWSPVchar(line[j]) {
			return "", "", false
		}
	}
	return name, string(line[valueStart:valueEnd]), true
}
