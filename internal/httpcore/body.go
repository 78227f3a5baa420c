package httpcore

import (
	"errors"
	"strconv"
)

// ErrShortRead is returned by ReadFixedBody when the stream ends before
// Content-Length bytes have been delivered, spec.md §7's "Short read vs
// declared Content-Length" row.
var ErrShortRead = errors.New("httpcore: short read against Content-Length")

// ReadFixedBody implements spec.md §4.G rule 2: read exactly length bytes.
func ReadFixedBody(in Input, length int64) ([]byte, error) {
	if length <= 0 {
		return nil, nil
	}
	body, err := in.ReadFull(int(length))
	if err != nil {
		return nil, ErrShortRead
	}
	return body, nil
}

// ErrInvalidChunkSize covers both an unparsable chunk size-line and a chunk
// size exceeding Config.MaxChunkSize.
var ErrInvalidChunkSize = errors.New("httpcore: invalid or oversized chunk size")

// ErrInvalidChunkTerminator covers a chunk-data section not immediately
// followed by CRLF.
var ErrInvalidChunkTerminator = errors.New("httpcore: invalid chunk-data terminator")

// ChunkIterator is the lazy sequence spec.md §3 describes: it yields
// (bytes, exts_dict, exts_raw) triples until the zero-length chunk, then
// makes Trailers available. Consuming it to exhaustion is the documented
// precondition for Request.Trailers to be populated — mirrored here by
// Trailers returning nil until Next has returned ok == false with Err() ==
// nil.
type ChunkIterator struct {
	in       Input
	cfg      Config
	logger   *Logger
	done     bool
	err      error
	trailers *FieldStore
}

// NewChunkIterator begins decoding a chunked body read from in.
func NewChunkIterator(in Input, cfg Config, logger *Logger) *ChunkIterator {
	return &ChunkIterator{in: in, cfg: cfg, logger: logger}
}

// Err reports the terminal decode error, if Next stopped early because of
// one (as opposed to stopping because the zero-length chunk was reached).
func (it *ChunkIterator) Err() error { return it.err }

// Trailers returns the trailer fields collected after the terminating
// chunk, or nil if the iterator has not yet been exhausted successfully.
func (it *ChunkIterator) Trailers() *FieldStore { return it.trailers }

// Next reads one chunk. ok is false when the body is exhausted (Err() nil)
// or decoding failed (Err() non-nil); callers must check Err() to tell
// those two cases apart.
func (it *ChunkIterator) Next() (data []byte, extsDict map[string][]string, extsRaw string, ok bool) {
	if it.done {
		return nil, nil, "", false
	}

	sizeLine, err := it.in.ReadLine()
	if err != nil {
		it.done, it.err = true, err
		return nil, nil, "", false
	}
	size, extsDict, extsRaw, perr := parseChunkSizeLine(sizeLine)
	if perr != nil {
		it.logger.Errorf("invalid chunk size line %q: %v", sizeLine, perr)
		it.done, it.err = true, ErrInvalidChunkSize
		return nil, nil, "", false
	}
	if size > it.cfg.MaxChunkSize {
		it.logger.Errorf("chunk size %d exceeds max %d", size, it.cfg.MaxChunkSize)
		it.done, it.err = true, ErrInvalidChunkSize
		return nil, nil, "", false
	}

	if size == 0 {
		trailers, terr := readTrailerFields(it.in, it.logger)
		it.done, it.err = true, terr
		if terr == nil {
			it.trailers = trailers
		}
		return nil, nil, "", false
	}

	chunk, err := it.in.ReadFull(int(size))
	if err != nil {
		it.done, it.err = true, err
		return nil, nil, "", false
	}
	terminator, err := it.in.ReadFull(2)
	if err != nil || terminator[0] != '\r' || terminator[1] != '\n' {
		it.done, it.err = true, ErrInvalidChunkTerminator
		return nil, nil, "", false
	}
	return chunk, extsDict, extsRaw, true
}

// parseChunkSizeLine parses "HEX *(\";\" ext) \r\n", spec.md §4.G.
func parseChunkSizeLine(line []byte) (size int64, extsDict map[string][]string, extsRaw string, err error) {
	line = trimCRLF(line)
	i := 0
	sizeStart := i
	for i < len(line) && isHexDigit(line[i]) {
		i++
	}
	if i == sizeStart {
		return 0, nil, "", errors.New("empty chunk size")
	}
	size, err = strconv.ParseInt(string(line[sizeStart:i]), 16, 64)
	if err != nil {
		return 0, nil, "", err
	}
	if i == len(line) {
		return size, nil, "", nil
	}
	extsRaw = string(line[i:])
	extsDict, err = parseChunkExts(extsRaw)
	if err != nil {
		return 0, nil, "", err
	}
	return size, extsDict, extsRaw, nil
}

// parseChunkExts parses "*( \";\" chunk-ext-name [ \"=\" chunk-ext-val ] )"
// into name -> list(value-or-true), allowing repeated names per spec.md
// §4.G; chunk-ext-val is either a bare token or a quoted-string.
func parseChunkExts(s string) (map[string][]string, error) {
	exts := make(map[string][]string)
	i := 0
	for i < len(s) {
		if s[i] != ';' {
			return nil, errors.New("chunk extension missing leading ';'")
		}
		i++
		nameStart := i
		for i < len(s) && isTchar(s[i]) {
			i++
		}
		if i == nameStart {
			return nil, errors.New("empty chunk extension name")
		}
		name := s[nameStart:i]

		if i < len(s) && s[i] == '=' {
			i++
			value, n, ok := scanChunkExtValue(s[i:])
			if !ok {
				return nil, errors.New("invalid chunk extension value")
			}
			exts[name] = append(exts[name], value)
			i += n
		} else {
			exts[name] = append(exts[name], "true")
		}
	}
	return exts, nil
}

func scanChunkExtValue(s string) (value string, n int, ok bool) {
	if len(s) > 0 && s[0] == '"' {
		i := 1
		for i < len(s) && s[i] != '"' {
			if s[i] == '\\' && i+1 < len(s) {
				i++
			}
			i++
		}
		if i == len(s) {
			return "", 0, false
		}
		return s[1:i], i + 1, true
	}
	i := 0
	for i < len(s) && isTchar(s[i]) {
		i++
	}
	return s[:i], i, true
}

// readTrailerFields reads field lines (the same grammar as headers) until
// a blank CRLF line, spec.md §4.G's "trailer fields follow until a blank
// line."
func readTrailerFields(in Input, logger *Logger) (*FieldStore, error) {
	store := NewFieldStore()
	for {
		line, err := in.ReadLine()
		if err != nil {
			return store, err
		}
		logger.TraceLine('<', line)
		trimmed := trimCRLF(line)
		if len(trimmed) == 0 {
			return store, nil
		}
		name, value, ok := parseFieldLine(trimmed)
		if !ok {
			logger.Warnf("malformed trailer line %q", trimmed)
			continue
		}
		store.Add(name, value)
	}
}

func trimCRLF(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}

// dropLF strips only the trailing '\n' ReadLine leaves on a line, keeping
// any '\r' before it — ParseRequestLine validates that CR itself (reqline.go),
// so the driver must not strip it the way trimCRLF does for header lines.
func dropLF(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		return line[:n-1]
	}
	return line
}
