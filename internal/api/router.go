package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sescandon/nevexp/internal/config"
	"github.com/sescandon/nevexp/internal/logging"
)

func NewRouter(h *Handler, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		api.POST("/push", h.Push)
		api.GET("/status", h.Status)
		api.GET("/events", h.Events)
	}

	// Application windows attach here.
	r.GET("/ws", h.Window)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
