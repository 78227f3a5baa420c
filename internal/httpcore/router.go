package httpcore

import "regexp"

// route is one registered (pattern, handler) pair for a method.
type route struct {
	pattern *regexp.Regexp
	handler Handler
}

// Router is the ordered, per-method (pattern, handler) list spec.md §4.H
// describes. Matching is delegated to Go's regexp package: gorox's own
// path-pattern matcher (hemi's web_*_general.go route trees) was still a
// hand-rolled TODO in the teacher tree, so this core reaches for the
// standard library's battle-tested regex engine instead of re-deriving one.
type Router struct {
	routes map[string][]route
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string][]route)}
}

// AddRoute registers pattern (anchored the way callers expect, e.g. "^/$")
// against method, appending to that method's list. Patterns are tried in
// registration order.
func (rt *Router) AddRoute(method, pattern string, handler Handler) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	rt.routes[method] = append(rt.routes[method], route{pattern: re, handler: handler})
	return nil
}

// RouteStatus is returned alongside the matched handler so the connection
// driver can produce the 501/404 fallbacks spec.md §4.H and §7 specify
// without the router itself knowing how to serialize a response.
type RouteStatus int

const (
	RouteMatched       RouteStatus = iota
	RouteMethodUnknown             // no routes registered for this method: 501
	RouteNoMatch                   // routes exist for this method, none matched: 404
)

// Dispatch tries every pattern registered for method, in order, against
// path. The first non-empty match wins; its captures (submatch groups,
// excluding the whole-match group 0) are returned for Request.Matches.
func (rt *Router) Dispatch(method, path string) (handler Handler, matches []string, status RouteStatus) {
	routes, ok := rt.routes[method]
	if !ok {
		return nil, nil, RouteMethodUnknown
	}
	for _, rte := range routes {
		sub := rte.pattern.FindStringSubmatch(path)
		if sub == nil || sub[0] == "" {
			continue
		}
		if len(sub) > 1 {
			matches = sub[1:]
		}
		return rte.handler, matches, RouteMatched
	}
	return nil, nil, RouteNoMatch
}
