package httpcore

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadFixedBody(t *testing.T) {
	in := NewInput(strings.NewReader("hello world"))
	body, err := ReadFixedBody(in, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "hello" {
		t.Errorf("got %q", body)
	}
}

func TestReadFixedBodyShortRead(t *testing.T) {
	in := NewInput(strings.NewReader("hi"))
	if _, err := ReadFixedBody(in, 10); err != ErrShortRead {
		t.Errorf("got err %v, want ErrShortRead", err)
	}
}

func TestReadFixedBodyZeroLength(t *testing.T) {
	in := NewInput(strings.NewReader(""))
	body, err := ReadFixedBody(in, 0)
	if err != nil || body != nil {
		t.Errorf("got body=%v err=%v", body, err)
	}
}

// TestChunkIteratorWithTrailers covers spec scenario 4.
func TestChunkIteratorWithTrailers(t *testing.T) {
	raw := "5\r\nHello\r\n6\r\n World\r\n0\r\nX-T: v\r\n\r\n"
	in := NewInput(bytes.NewBufferString(raw))
	logger := NewLogger(discardFile(t), "(test)", LevelTRACE)
	it := NewChunkIterator(in, DefaultConfig(), logger)

	chunk, _, _, ok := it.Next()
	if !ok || string(chunk) != "Hello" {
		t.Fatalf("chunk 1 = %q ok=%v", chunk, ok)
	}
	chunk, _, _, ok = it.Next()
	if !ok || string(chunk) != " World" {
		t.Fatalf("chunk 2 = %q ok=%v", chunk, ok)
	}
	_, _, _, ok = it.Next()
	if ok {
		t.Fatal("expected exhaustion")
	}
	if it.Err() != nil {
		t.Fatalf("unexpected error: %v", it.Err())
	}
	trailers := it.Trailers()
	if trailers == nil {
		t.Fatal("expected trailers")
	}
	field, found := trailers.Get("x-t")
	if !found {
		t.Fatal("expected x-t trailer")
	}
	if got := field.Concat(",", DefaultConfig()); got != "v" {
		t.Errorf("x-t = %q", got)
	}
}

func TestChunkIteratorWithExtensions(t *testing.T) {
	raw := "3;foo=bar\r\nabc\r\n0\r\n\r\n"
	in := NewInput(bytes.NewBufferString(raw))
	logger := NewLogger(discardFile(t), "(test)", LevelTRACE)
	it := NewChunkIterator(in, DefaultConfig(), logger)

	chunk, exts, raw2, ok := it.Next()
	if !ok || string(chunk) != "abc" {
		t.Fatalf("chunk = %q ok=%v", chunk, ok)
	}
	if len(exts["foo"]) != 1 || exts["foo"][0] != "bar" {
		t.Errorf("exts = %+v", exts)
	}
	if raw2 != ";foo=bar" {
		t.Errorf("extsRaw = %q", raw2)
	}
}

func TestChunkIteratorOversizeRejected(t *testing.T) {
	raw := "A\r\n0123456789\r\n0\r\n\r\n"
	in := NewInput(bytes.NewBufferString(raw))
	cfg := DefaultConfig()
	cfg.MaxChunkSize = 5
	logger := NewLogger(discardFile(t), "(test)", LevelTRACE)
	it := NewChunkIterator(in, cfg, logger)

	if _, _, _, ok := it.Next(); ok {
		t.Fatal("expected oversize chunk to be rejected")
	}
	if it.Err() != ErrInvalidChunkSize {
		t.Errorf("got err %v", it.Err())
	}
}
