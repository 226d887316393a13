package api

import (
	"net/http"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"

	"github.com/gin-gonic/gin"
)

// ListBundles returns the packaging history from the bundle registry.
func ListBundles(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	if app.BundleRepository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "bundle registry not available"})
		return
	}

	bundles, err := app.BundleRepository.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   bundles,
	})
}
