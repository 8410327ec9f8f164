package handlers

import (
	"net/http"

	"github.com/Harish-hex/SIH-HealthTwin/repository"
	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
)

var endpoints = []string{
	"/predict", "/records", "/alerts", "/statistics/<state>", "/workers", "/dashboard",
	"/health-metrics", "/auth/login", "/auth/verify", "/ws/alerts",
}

func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Smart Health Monitoring API with Database is running!",
		"endpoints": endpoints,
	})
}

// Health reports UP while the database answers. Redis is informational
// since every feature degrades without it.
func Health(repo *repository.Repository, cache *services.CacheService, predictions *services.PredictionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "UP", http.StatusOK
		db := "ok"
		if err := repo.Ping(); err != nil {
			status, code, db = "DOWN", http.StatusServiceUnavailable, err.Error()
		}
		redis := "ok"
		if err := cache.Ping(c.Request.Context()); err != nil {
			redis = err.Error()
		}

		c.JSON(code, gin.H{
			"status":        status,
			"database":      db,
			"redis":         redis,
			"model_version": predictions.ModelVersion(),
		})
	}
}
