package server

import (
	"net/http"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/api"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"

	"github.com/gin-gonic/gin"
)

func (s *Server) SetupRoutes(app *app.App) {
	// Health check endpoint for the frontend itself
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := s.ginEngine.Group("/api/v1")

	apiV1.POST("/classify", handlerWrapper(app, api.Classify))
	apiV1.GET("/backend/health", handlerWrapper(app, api.BackendHealth))
	apiV1.GET("/bundles", handlerWrapper(app, api.ListBundles))
}

func handlerWrapper(app *app.App, f func(c *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("app", app)
		f(ctx)
	}
}
