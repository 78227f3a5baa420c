package httpcore

import "testing"

func TestRouterFirstMatchWins(t *testing.T) {
	rt := NewRouter()
	var got string
	rt.AddRoute("GET", "^/a$", func(r *Request) *Response { got = "first"; return NewResponse(200, "ok") })
	rt.AddRoute("GET", "^/a$", func(r *Request) *Response { got = "second"; return NewResponse(200, "ok") })

	handler, _, status := rt.Dispatch("GET", "/a")
	if status != RouteMatched {
		t.Fatalf("status = %v", status)
	}
	handler(nil)
	if got != "first" {
		t.Errorf("got %q, want first", got)
	}
}

func TestRouterCaptures(t *testing.T) {
	rt := NewRouter()
	rt.AddRoute("GET", `^/users/(\d+)$`, func(r *Request) *Response { return NewResponse(200, "ok") })

	_, matches, status := rt.Dispatch("GET", "/users/42")
	if status != RouteMatched {
		t.Fatalf("status = %v", status)
	}
	if len(matches) != 1 || matches[0] != "42" {
		t.Errorf("matches = %+v", matches)
	}
}

func TestRouterMethodUnknown(t *testing.T) {
	rt := NewRouter()
	rt.AddRoute("GET", "^/$", func(r *Request) *Response { return NewResponse(200, "ok") })

	_, _, status := rt.Dispatch("PUT", "/")
	if status != RouteMethodUnknown {
		t.Errorf("status = %v, want RouteMethodUnknown", status)
	}
}

func TestRouterNoPatternMatch(t *testing.T) {
	rt := NewRouter()
	rt.AddRoute("GET", "^/a$", func(r *Request) *Response { return NewResponse(200, "ok") })

	_, _, status := rt.Dispatch("GET", "/b")
	if status != RouteNoMatch {
		t.Errorf("status = %v, want RouteNoMatch", status)
	}
}
