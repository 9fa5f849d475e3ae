// Package router assembles the gin engine and the versioned API routes.
package router

import (
	"path"

	"github.com/gin-gonic/gin"
)

// DefaultAPIVersion is the path segment used when none is given.
const DefaultAPIVersion = "v1"

// Route describes one installed endpoint.
type Route struct {
	Group  string
	Method string
	Path   string
}

// API collects route groups and installs them under /api/<version>.
type API struct {
	engine  *gin.Engine
	version string
	groups  []*Group
}

// NewAPI returns an API rooted on engine. An empty version means
// DefaultAPIVersion.
func NewAPI(engine *gin.Engine, version string) *API {
	if version == "" {
		version = DefaultAPIVersion
	}
	return &API{engine: engine, version: version}
}

// Version returns the path segment the groups are installed under.
func (a *API) Version() string {
	return a.version
}

// Mount queues groups for installation. Nil groups are skipped.
func (a *API) Mount(groups ...*Group) *API {
	for _, g := range groups {
		if g != nil {
			a.groups = append(a.groups, g)
		}
	}
	return a
}

// Install registers every mounted group on the engine and returns the
// resulting routes in registration order.
func (a *API) Install() []Route {
	base := a.engine.Group("/api/" + a.version)
	var routes []Route
	for _, g := range a.groups {
		routes = append(routes, g.Attach(base)...)
	}
	return routes
}

type endpoint struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// Group is a named set of endpoints sharing a prefix and middleware.
// Middleware added with Use also applies to child groups.
type Group struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	endpoints  []endpoint
	children   []*Group
}

// NewGroup returns an empty group.
func NewGroup(name, prefix string) *Group {
	return &Group{name: name, prefix: prefix}
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Prefix returns the path prefix relative to the parent.
func (g *Group) Prefix() string { return g.prefix }

// Use appends middleware.
func (g *Group) Use(middleware ...gin.HandlerFunc) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Handle adds an endpoint for any HTTP method.
func (g *Group) Handle(method, relPath string, handlers ...gin.HandlerFunc) *Group {
	g.endpoints = append(g.endpoints, endpoint{method: method, path: relPath, handlers: handlers})
	return g
}

// GET adds a GET endpoint.
func (g *Group) GET(relPath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle("GET", relPath, handlers...)
}

// POST adds a POST endpoint.
func (g *Group) POST(relPath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle("POST", relPath, handlers...)
}

// Child returns a new group nested under g.
func (g *Group) Child(name, prefix string) *Group {
	child := NewGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

// Attach registers the group and its children on rg.
func (g *Group) Attach(rg *gin.RouterGroup) []Route {
	rg = rg.Group(g.prefix)
	if len(g.middleware) > 0 {
		rg.Use(g.middleware...)
	}

	routes := make([]Route, 0, len(g.endpoints))
	for _, e := range g.endpoints {
		rg.Handle(e.method, e.path, e.handlers...)
		routes = append(routes, Route{
			Group:  g.name,
			Method: e.method,
			Path:   joinRoute(rg.BasePath(), e.path),
		})
	}
	for _, child := range g.children {
		routes = append(routes, child.Attach(rg)...)
	}
	return routes
}

func joinRoute(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(base, rel)
}
