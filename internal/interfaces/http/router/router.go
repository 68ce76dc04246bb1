package router

import "github.com/gin-gonic/gin"

// RouteRegistrar is implemented by handlers that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects handler registrars and mounts them under /api/<version>.
type Router struct {
	engine  *gin.Engine
	version string
	groups  []RouteRegistrar
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAPIVersion overrides the default "v1" prefix segment.
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.version = version }
}

// NewRouter creates a Router bound to the given engine.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a registrar; chainable so handlers read as a list.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.groups = append(r.groups, registrar)
	return r
}

// Setup mounts every queued registrar on the versioned API group.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.version)
	for _, g := range r.groups {
		g.RegisterRoutes(api)
	}
}
