package main

import "strings"

// HandlerFunc produces the response for a matched route. param is the part
// of the path after a prefix rule, or "" for exact rules.
type HandlerFunc func(req *Request, param string) *Response

type Route struct {
	Method  string
	Pattern string
	Prefix  bool
	Handler HandlerFunc
}

func (rt *Route) match(req *Request) (string, bool) {
	if req.Method != rt.Method {
		return "", false
	}
	if rt.Prefix {
		return strings.CutPrefix(req.Path, rt.Pattern)
	}
	return "", req.Path == rt.Pattern
}

// Router tries its routes in the order they were added. The first match
// wins; a request nothing matches gets NotFound.
type Router struct {
	routes   []Route
	NotFound HandlerFunc
}

func NewRouter() *Router {
	return &Router{NotFound: notFoundHandler}
}

func (r *Router) Handle(method, path string, h HandlerFunc) {
	r.routes = append(r.routes, Route{Method: method, Pattern: path, Handler: h})
}

func (r *Router) HandlePrefix(method, prefix string, h HandlerFunc) {
	r.routes = append(r.routes, Route{Method: method, Pattern: prefix, Prefix: true, Handler: h})
}

func (r *Router) Dispatch(req *Request) *Response {
	for i := range r.routes {
		if param, ok := r.routes[i].match(req); ok {
			return r.routes[i].Handler(req, param)
		}
	}
	return r.NotFound(req, "")
}

// NewServerRouter wires the server's endpoints, in priority order.
func NewServerRouter(cfg *Config) *Router {
	files := &fileStore{root: cfg.Directory}

	r := NewRouter()
	r.Handle(MethodGet, "/", rootHandler)
	r.HandlePrefix(MethodGet, "/echo/", echoHandler)
	r.Handle(MethodGet, "/user-agent", userAgentHandler)
	r.HandlePrefix(MethodGet, "/files/", files.read)
	r.HandlePrefix(MethodPost, "/files/", files.write)
	return r
}
