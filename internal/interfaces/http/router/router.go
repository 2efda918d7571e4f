package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raas/backend/internal/infrastructure/auth"
	"github.com/raas/backend/internal/infrastructure/logger"
	"github.com/raas/backend/internal/interfaces/http/handler"
	"github.com/raas/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup(middleware ...gin.HandlerFunc) {
	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup is a route group for one domain with its own middleware
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: http.MethodGet, path: path, handlers: handlers})
	return dg
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: http.MethodPost, path: path, handlers: handlers})
	return dg
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

const defaultMaxBodySize = 12 << 20

// Config holds what the engine needs besides the handlers
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	AdminRoles     []string
	TrustedProxies []string
	// Metrics, when set, observes every request and is served on /metrics
	Metrics *middleware.HTTPMetrics
	Tracing middleware.TracingConfig
}

// Handlers are the HTTP handlers served by the engine
type Handlers struct {
	Uploads       *handler.UploadHandler
	Invoices      *handler.InvoiceHandler
	Installations *handler.InstallationHandler
	System        *handler.SystemHandler
}

// New builds the gin engine with middleware and every route
func New(cfg Config, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	// spans first so request logs carry trace_id
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(logger.GinMiddleware(log), logger.Recovery(log), middleware.CORS(cfg.CORS))
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	engine.GET("/health", h.System.Health)

	uploads := NewDomainGroup("uploads", "/uploads").
		POST("", middleware.BodyLimit(cfg.MaxBodySize), h.Uploads.Upload).
		GET("", h.Uploads.ListBatches).
		GET("/:id", h.Uploads.GetBatch)

	invoices := NewDomainGroup("invoices", "/invoices").
		Use(middleware.RequireRoles(cfg.AdminRoles...)).
		POST("/generate", h.Invoices.Generate).
		POST("/recalculate", h.Invoices.Recalculate)

	installations := NewDomainGroup("installations", "/installations").
		GET("/:number/history", h.Installations.History)

	jwtCfg := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtCfg.Logger = log
	NewRouter(engine).
		Register(uploads).
		Register(invoices).
		Register(installations).
		Setup(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	return engine, nil
}
