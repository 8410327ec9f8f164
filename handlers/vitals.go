package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/repository"
	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
)

type VitalsHandler struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewVitalsHandler(repo *repository.Repository) *VitalsHandler {
	return &VitalsHandler{repo: repo, now: time.Now}
}

func (h *VitalsHandler) Create(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := services.DecodeVitals(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.CreateVitals(c.Request.Context(), rec); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database insert failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Health metrics recorded successfully",
		"record_id": rec.ID,
	})
}

func (h *VitalsHandler) List(c *gin.Context) {
	p := ParsePage(c)
	page, err := h.repo.ListVitals(c.Request.Context(), repository.VitalsFilter{
		State:    c.Query("state"),
		District: c.Query("district"),
		Page:     p.Page,
		PerPage:  p.PerPage,
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VitalsHandler) Stats(c *gin.Context) {
	stats, err := h.repo.VitalsStats(c.Request.Context(), c.Query("state"), h.now())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *VitalsHandler) SymptomStats(c *gin.Context) {
	stats, err := h.repo.SymptomStats(c.Request.Context(), c.Query("state"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *VitalsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	err := h.repo.DeleteVitals(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Health metrics record deleted successfully",
	})
}
