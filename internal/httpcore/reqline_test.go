package httpcore

import "testing"

func TestParseRequestLineSimpleGET(t *testing.T) {
	rl := ParseRequestLine([]byte("GET / HTTP/1.1\r"))
	if rl.ProtocolError {
		t.Fatal("unexpected protocol error")
	}
	if rl.Method != "GET" || rl.Path != "/" || rl.RawQuery != "" {
		t.Errorf("got %+v", rl)
	}
}

func TestParseRequestLineWithQuery(t *testing.T) {
	rl := ParseRequestLine([]byte("GET /a%20b?x=1&y=2 HTTP/1.1\r"))
	if rl.ProtocolError {
		t.Fatal("unexpected protocol error")
	}
	if rl.Path != "/a b" {
		t.Errorf("Path = %q, want %q", rl.Path, "/a b")
	}
	if rl.RawQuery != "x=1&y=2" {
		t.Errorf("RawQuery = %q", rl.RawQuery)
	}
}

func TestParseRequestLineMalformed(t *testing.T) {
	cases := []string{
		"",
		"GET / HTTP/1.1", // missing trailing \r
		"GET HTTP/1.1\r",
		"GET / HTTP/1.0\r",
		" \r",
	}
	for _, c := range cases {
		rl := ParseRequestLine([]byte(c))
		if !rl.ProtocolError {
			t.Errorf("ParseRequestLine(%q): expected ProtocolError", c)
		}
	}
}
