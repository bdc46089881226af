// Package api exposes the gateway's REST surface: node listing and ZCL
// attribute read/write submission, backed by the controller.
package api

import (
	"github.com/gin-gonic/gin"

	"homai-zigbee/internal/api/handlers"
	"homai-zigbee/internal/controller"
	"homai-zigbee/internal/zcl/attrschema"
)

// Router holds the Gin engine and its handler dependencies.
type Router struct {
	engine *gin.Engine
	ctrl   *controller.Controller
}

// NewRouter builds a Router wired to ctrl. validator may be nil to disable
// attribute-write schema validation.
func NewRouter(ctrl *controller.Controller, validator *attrschema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	r := &Router{engine: engine, ctrl: ctrl}
	r.setupRoutes(validator)
	return r
}

func (r *Router) setupRoutes(validator *attrschema.Validator) {
	healthHandler := handlers.NewHealthHandler(r.ctrl)
	r.engine.GET("/health", healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		nodesHandler := handlers.NewNodesHandler(r.ctrl)
		nodes := v1.Group("/nodes")
		{
			nodes.GET("", nodesHandler.ListNodes)
			nodes.GET("/:ext", nodesHandler.GetNode)

			attrsHandler := handlers.NewAttributesHandler(r.ctrl, validator)
			attrs := nodes.Group("/:ext/endpoints/:ep/clusters/:cluster/attributes/:attr")
			{
				attrs.POST("/read", attrsHandler.ReadAttribute)
				attrs.POST("/write", attrsHandler.WriteAttribute)
			}
		}
	}
}

// Engine exposes the underlying Gin engine, e.g. for httptest.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server on addr.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
