package handlers

import (
	"github.com/Harish-hex/SIH-HealthTwin/config"
	"github.com/Harish-hex/SIH-HealthTwin/middleware"
	"github.com/Harish-hex/SIH-HealthTwin/repository"
	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Dependencies struct {
	Repo        *repository.Repository
	Predictions *services.PredictionService
	Auth        *services.AuthService
	Cache       *services.CacheService
	CORS        config.CORSConfig
	Logger      *zap.Logger
}

func NewRouter(d Dependencies) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger), middleware.SetupCORS(d.CORS))

	r.GET("/", Index)
	r.GET("/health", Health(d.Repo, d.Cache, d.Predictions))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	predictions := NewPredictionHandler(d.Predictions)
	r.POST("/predict", predictions.Predict)

	records := NewRecordsHandler(d.Repo, d.Cache)
	r.GET("/records", records.GetRecords)
	r.GET("/statistics/:state", records.GetStatistics)
	r.GET("/dashboard", records.GetDashboard)

	alerts := NewAlertHandler(d.Repo, d.Cache)
	r.GET("/alerts", alerts.GetAlerts)
	r.PATCH("/alerts/:id", alerts.UpdateAlert)

	workers := NewWorkerHandler(d.Repo)
	r.GET("/workers", workers.GetWorkers)

	vitals := NewVitalsHandler(d.Repo)
	hm := r.Group("/health-metrics")
	{
		hm.POST("", vitals.Create)
		hm.GET("", vitals.List)
		hm.GET("/stats", vitals.Stats)
		hm.GET("/symptom-stats", vitals.SymptomStats)
		hm.DELETE("/:id", vitals.Delete)
	}

	auth := NewAuthHandler(d.Auth)
	r.POST("/auth/login", auth.Login)
	r.POST("/auth/verify", auth.Verify)

	r.GET("/ws/alerts", LiveAlerts(d.Cache, d.Auth, d.Logger))

	return r
}
