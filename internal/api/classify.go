package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/app"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/inference"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/utils/imageutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Classify accepts an image (multipart "file" field, or the raw request
// body), forwards it to the serving backend, and returns the ranked result.
// One blocking backend call per request; a failure is terminal for this
// request only.
func Classify(c *gin.Context) {
	app := c.MustGet("app").(*app.App)

	imageBytes, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to read image from request"})
		return
	}

	normalized, err := imageutil.NormalizeJPEG(imageBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid image: " + err.Error()})
		return
	}

	start := time.Now()
	result, err := app.InferenceClient.Predict(c.Request.Context(), normalized)
	if err != nil {
		app.Logger.Warn("Classification failed", zap.Error(err))

		switch {
		case errors.Is(err, inference.ErrDecode):
			c.JSON(http.StatusBadGateway, gin.H{"message": "failed to decode backend response"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"message": "prediction failed"})
		}
		return
	}

	top, _ := result.Top()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data": gin.H{
			"predictions": result,
			"top":         top,
			"latency_ms":  time.Since(start).Milliseconds(),
		},
	})
}

func readImage(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		content, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer content.Close()

		return io.ReadAll(io.LimitReader(content, imageutil.MaxUploadSize+1))
	}

	return io.ReadAll(io.LimitReader(c.Request.Body, imageutil.MaxUploadSize+1))
}
