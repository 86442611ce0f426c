package api

import (
	"context"
	"log/slog"
	"net"
	"strings"
)

// Request contains route parameters and the optional payload of a command.
type Request struct {
	Ctx     context.Context
	Params  map[string]string
	Payload string
}

// Response holds the JSON string to return to the client.
type Response struct {
	JSON string
}

// HandlerFunc processes a request and populates the response. The logger is
// connection-scoped, enriched with remote address metadata by the server.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// StreamHandlerFunc handles long-lived connections. The handler takes
// ownership of the connection and returns when the stream ends; a non-nil
// error indicates a terminal failure the server will log.
type StreamHandlerFunc func(conn net.Conn, logger *slog.Logger) error

// Router implements simple path pattern matching with placeholders in
// {name}.
type Router struct {
	routes       []routeEntry
	streamRoutes []streamRouteEntry
}

type routeEntry struct {
	originalPattern string
	parts           []string
	handler         HandlerFunc
}

type streamRouteEntry struct {
	originalPattern string
	parts           []string
	handler         StreamHandlerFunc
}

// NewRouter returns a new Router instance.
func NewRouter() *Router { return &Router{} }

// Register registers a handler for a path pattern like "read/{max}".
func (r *Router) Register(pattern string, handler HandlerFunc) {
	parts := strings.Split(strings.ToLower(pattern), "/")
	r.routes = append(r.routes, routeEntry{originalPattern: pattern, parts: parts, handler: handler})
}

// RegisterStream registers a handler for long-lived streaming paths.
func (r *Router) RegisterStream(pattern string, handler StreamHandlerFunc) {
	parts := strings.Split(strings.ToLower(pattern), "/")
	r.streamRoutes = append(r.streamRoutes, streamRouteEntry{originalPattern: pattern, parts: parts, handler: handler})
}

// Match returns the HandlerFunc and params for the path, or nil.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	parts := strings.Split(strings.ToLower(path), "/")
	for _, rt := range r.routes {
		if params, ok := matchParts(rt.parts, rt.originalPattern, parts); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

// MatchStream returns the StreamHandlerFunc and params for the path, or nil.
func (r *Router) MatchStream(path string) (StreamHandlerFunc, map[string]string) {
	parts := strings.Split(strings.ToLower(path), "/")
	for _, rt := range r.streamRoutes {
		if params, ok := matchParts(rt.parts, rt.originalPattern, parts); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

func matchParts(patternParts []string, originalPattern string, parts []string) (map[string]string, bool) {
	if len(patternParts) != len(parts) {
		return nil, false
	}
	params := map[string]string{}
	originalParts := strings.Split(originalPattern, "/")
	for i := range parts {
		if strings.HasPrefix(patternParts[i], "{") && strings.HasSuffix(patternParts[i], "}") {
			name := originalParts[i][1 : len(originalParts[i])-1]
			params[name] = parts[i]
			continue
		}
		if patternParts[i] != parts[i] {
			return nil, false
		}
	}
	return params, true
}
