package httpcore

import "testing"

func TestParseFieldValueSimpleToken(t *testing.T) {
	elems, ok := ParseFieldValue("gzip", DefaultConfig())
	if !ok {
		t.Fatal("expected ok")
	}
	if len(elems) != 1 || elems[0].Value != "gzip" {
		t.Fatalf("got %+v", elems)
	}
}

func TestParseFieldValueMediaTypeWithParam(t *testing.T) {
	elems, ok := ParseFieldValue("text/html;q=0.8", DefaultConfig())
	if !ok {
		t.Fatal("expected ok")
	}
	if len(elems) != 1 || elems[0].Value != "text/html" {
		t.Fatalf("got %+v", elems)
	}
	p, found := elems[0].Param("q")
	if !found || p.Value != "0.8" {
		t.Fatalf("param q = %+v, found=%v", p, found)
	}
}

func TestParseFieldValueList(t *testing.T) {
	elems, ok := ParseFieldValue("a, b, c", DefaultConfig())
	if !ok {
		t.Fatal("expected ok")
	}
	if len(elems) != 3 || elems[0].Value != "a" || elems[1].Value != "b" || elems[2].Value != "c" {
		t.Fatalf("got %+v", elems)
	}
}

func TestParseFieldValueQuotedString(t *testing.T) {
	elems, ok := ParseFieldValue(`form-data; name="field1"; filename="a b.txt"`, DefaultConfig())
	if !ok {
		t.Fatal("expected ok")
	}
	if len(elems) != 1 || elems[0].Value != "form-data" {
		t.Fatalf("got %+v", elems)
	}
	name, _ := elems[0].Param("name")
	if name.Value != "field1" {
		t.Errorf("name = %+v", name)
	}
	filename, _ := elems[0].Param("filename")
	if filename.Value != "a b.txt" {
		t.Errorf("filename = %+v", filename)
	}
}

func TestParseFieldValueQuotedEscape(t *testing.T) {
	elems, ok := ParseFieldValue(`v;x="a\"b"`, DefaultConfig())
	if !ok {
		t.Fatal("expected ok")
	}
	p, _ := elems[0].Param("x")
	if p.Value != `a"b` {
		t.Errorf("got %q", p.Value)
	}
}

func TestParseFieldValueBareAttribute(t *testing.T) {
	elems, ok := ParseFieldValue("gzip;q", DefaultConfig())
	if !ok {
		t.Fatal("expected ok")
	}
	p, found := elems[0].Param("q")
	if !found || p.HasValue {
		t.Fatalf("expected bare attribute q, got %+v found=%v", p, found)
	}
}

func TestParseFieldValueComment(t *testing.T) {
	elems, ok := ParseFieldValue("gzip (nested (comment) here)", DefaultConfig())
	if !ok {
		t.Fatal("expected ok")
	}
	if len(elems) != 1 || len(elems[0].Comments) != 1 {
		t.Fatalf("got %+v", elems)
	}
	if len(elems[0].Comments[0].Children) != 1 {
		t.Fatalf("expected one nested comment, got %+v", elems[0].Comments[0])
	}
}

// TestParseFieldValueDowngrade covers spec scenario 6: two bare tokens with
// no delimiter downgrade the whole value to unstructured content.
func TestParseFieldValueDowngrade(t *testing.T) {
	elems, ok := ParseFieldValue("a b", DefaultConfig())
	if !ok {
		t.Fatal("expected ok (lexer still accepts CONTENT fallback)")
	}
	if len(elems) != 0 {
		t.Fatalf("expected downgrade to discard elements, got %+v", elems)
	}
}

func TestParseFieldValueUnterminatedQuoteRejected(t *testing.T) {
	if _, ok := ParseFieldValue(`a, "b`, DefaultConfig()); ok {
		t.Fatal("expected rejection of an unterminated quoted-string")
	}
}

func TestParseFieldValueTrailingEmptyCommentTolerated(t *testing.T) {
	elems, ok := ParseFieldValue("a (", DefaultConfig())
	if !ok {
		t.Fatal("expected an empty trailing comment to be tolerated")
	}
	if len(elems) != 1 || elems[0].Value != "a" {
		t.Fatalf("got %+v", elems)
	}
}

func TestParseFieldValueEscapeStackLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FieldValueParserStackSizeLimit = 2
	raw := `gzip;x="a\1\2\3\4"`
	if _, ok := ParseFieldValue(raw, cfg); ok {
		t.Fatal("expected escape-stack abuse limit to reject the value")
	}
}

func TestParseFieldValueCommentDepthLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FieldValueParserCommentDepthLimit = 1
	if _, ok := ParseFieldValue("a (b (c))", cfg); ok {
		t.Fatal("expected comment-depth abuse limit to reject the value")
	}
}
