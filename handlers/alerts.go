package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/models"
	"github.com/Harish-hex/SIH-HealthTwin/repository"
	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	repo  *repository.Repository
	cache *services.CacheService
}

func NewAlertHandler(repo *repository.Repository, cache *services.CacheService) *AlertHandler {
	return &AlertHandler{repo: repo, cache: cache}
}

type alertPredictionView struct {
	Disease     string `json:"disease"`
	HealthAlert string `json:"health_alert"`
}

type alertLocationView struct {
	State    *string `json:"state"`
	District *string `json:"district"`
	Location *string `json:"location"`
}

type alertView struct {
	ID             uint                `json:"id"`
	Level          string              `json:"alert_level"`
	Status         string              `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	Notes          *string             `json:"notes"`
	Prediction     alertPredictionView `json:"prediction"`
	Location       alertLocationView   `json:"location"`
	AssignedWorker *models.Worker      `json:"assigned_worker"`
}

func newAlertView(a models.Alert) alertView {
	v := alertView{
		ID:             a.ID,
		Level:          a.Level,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		Notes:          a.Notes,
		AssignedWorker: a.AssignedWorker,
	}
	if p := a.Prediction; p != nil {
		v.Prediction = alertPredictionView{Disease: p.PredictedDisease, HealthAlert: p.HealthAlert}
		if r := p.Reading; r != nil {
			v.Location = alertLocationView{State: r.State, District: r.District, Location: r.Location}
		}
	}
	return v
}

func (h *AlertHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.repo.ListAlerts(c.Request.Context(), c.Query("status"), c.Query("state"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	out := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, newAlertView(a))
	}
	c.JSON(http.StatusOK, out)
}

type UpdateAlertRequest struct {
	Status     *string `json:"status"`
	AssignedTo *uint   `json:"assigned_to"`
	Notes      *string `json:"notes"`
}

// UpdateAlert moves an alert through ACTIVE, INVESTIGATING and RESOLVED and
// records the assigned worker and notes.
func (h *AlertHandler) UpdateAlert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}

	var req UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.repo.UpdateAlert(c.Request.Context(), id, repository.AlertUpdate{
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	case errors.Is(err, repository.ErrInvalidStatus), errors.Is(err, repository.ErrUnknownWorker):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database update failed"})
		return
	}

	// active_alerts on the dashboard counts by status
	if err := h.cache.Delete(c.Request.Context(), services.DashboardCacheKey); err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, newAlertView(*alert))
}
