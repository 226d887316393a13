package api

import (
	"net/http"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"

	"github.com/gin-gonic/gin"
)

// BackendHealth proxies the serving backend's ping route so the upload page
// can show whether the container is up.
func BackendHealth(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	if err := app.InferenceClient.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "offline",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "online"})
}
