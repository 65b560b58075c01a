package server

import (
	"net/http"

	"github.com/gensquad/talentbase/internal/server/handlers/api"
	"github.com/gensquad/talentbase/internal/server/handlers/talent"
	"github.com/gensquad/talentbase/internal/server/handlers/workflow"
	"github.com/gensquad/talentbase/internal/server/middlewares"
	"github.com/gin-gonic/gin"
)

const indexMessage = "GenSquad API is running..."

func SetupRoutes(cfg *Config, svc *Services) http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.MaxMultipartMemory = 16 << 20 // 16 MiB

	talentH := talent.NewTalentHandler(svc.Talent)
	workflowH := workflow.NewWorkflowHandler(svc.Workflow)

	r.Use(middlewares.Logger())
	r.Use(middlewares.Recovery())
	r.Use(middlewares.GZIP())
	r.Use(middlewares.CORS(cfg.CORS.AllowedOrigins))
	if cfg.HTTP.TLSEnabled() {
		r.Use(middlewares.HSTS())
	}

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)

	talents := r.Group("/api/talent")
	{
		talents.POST("", talentH.Create)
		talents.GET("", talentH.List)
		talents.GET("/:id", talentH.Get)
		talents.PUT("/:id", talentH.Update)
	}

	workflows := r.Group("/api/workflows")
	{
		workflows.GET("", workflowH.List)
		workflows.POST("/sync", middlewares.RateLimiter(cfg.HTTP.SyncRate), workflowH.Sync)
		workflows.GET("/:id", workflowH.Get)
	}

	r.NoRoute(func(c *gin.Context) {
		c.PureJSON(http.StatusNotFound, api.APIError{
			Code:    api.CodeNotFound,
			Message: "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.PureJSON(http.StatusMethodNotAllowed, api.APIError{
			Code:    api.CodeNotAllowed,
			Message: "method not allowed",
		})
	})

	return r.Handler()
}

func IndexHandler(ctx *gin.Context) {
	// return a plaintext
	ctx.String(http.StatusOK, indexMessage)
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
