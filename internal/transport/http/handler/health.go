package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todoapi/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Todo API is running"})
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.checkDB(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"app":        h.app.Config.App.Name,
		"env":        h.app.Config.App.Env,
		"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
	})
}

func (h *HealthHandler) checkDB(ctx context.Context) error {
	sqlDB, err := h.app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
