package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/session", RateLimit(h.Redis, h.RateLimitPerMin), h.IssueSession)
		auth.DELETE("/session", h.TerminateSession)

		st := api.Group("/stripe")
		st.GET("/config", h.BillingConfig)
		st.POST("/checkout", h.RequireSession(), h.Checkout)
		st.POST("/portal", h.RequireSession(), h.BillingPortal)

		api.GET("/tasks", h.ListTasks)
		api.GET("/tasks/:taskId", h.GetTask)

		ut := api.Group("/user-tasks", h.RequireSession())
		ut.GET("/:taskId", h.GetUserTask)
		ut.DELETE("/:taskId", h.DeleteUserTask)
	}
	return r
}
