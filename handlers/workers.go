package handlers

import (
	"net/http"

	"github.com/Harish-hex/SIH-HealthTwin/repository"

	"github.com/gin-gonic/gin"
)

type WorkerHandler struct {
	repo *repository.Repository
}

func NewWorkerHandler(repo *repository.Repository) *WorkerHandler {
	return &WorkerHandler{repo: repo}
}

func (h *WorkerHandler) GetWorkers(c *gin.Context) {
	workers, err := h.repo.ListWorkers(c.Request.Context(), c.Query("state"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, workers)
}
