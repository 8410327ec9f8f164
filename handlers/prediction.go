package handlers

import (
	"net/http"

	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	svc *services.PredictionService
}

func NewPredictionHandler(svc *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

// Predict classifies a water-quality reading and stores it with its
// prediction and any alert.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sample, meta, err := services.DecodeSample(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.svc.Submit(c.Request.Context(), sample, meta)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"predicted_disease": sub.Label,
		"health_alert":      sub.AlertMessage,
		"saved_to_database": sub.Saved,
	}
	if sub.Confidence != nil {
		resp["confidence_score"] = *sub.Confidence
	}
	if sub.RecordID != nil {
		resp["record_id"] = *sub.RecordID
	}
	c.JSON(http.StatusOK, resp)
}
