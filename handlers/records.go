package handlers

import (
	"net/http"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/models"
	"github.com/Harish-hex/SIH-HealthTwin/repository"
	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
)

const aggregateTTL = 30 * time.Second

type RecordsHandler struct {
	repo  *repository.Repository
	cache *services.CacheService
}

func NewRecordsHandler(repo *repository.Repository, cache *services.CacheService) *RecordsHandler {
	return &RecordsHandler{repo: repo, cache: cache}
}

type waterQualityView struct {
	PH             float64 `json:"ph"`
	Turbidity      float64 `json:"turbidity"`
	TDS            float64 `json:"tds"`
	PeopleAffected int     `json:"people_affected"`
	Location       *string `json:"location"`
	State          *string `json:"state"`
	District       *string `json:"district"`
	CollectedBy    *string `json:"collected_by"`
}

type recordView struct {
	ID               uint             `json:"id"`
	PredictedDisease string           `json:"predicted_disease"`
	HealthAlert      string           `json:"health_alert"`
	Timestamp        time.Time        `json:"timestamp"`
	WaterQuality     waterQualityView `json:"water_quality"`
}

func newRecordView(p models.Prediction) recordView {
	v := recordView{
		ID:               p.ID,
		PredictedDisease: p.PredictedDisease,
		HealthAlert:      p.HealthAlert,
		Timestamp:        p.CreatedAt,
	}
	if r := p.Reading; r != nil {
		v.WaterQuality = waterQualityView{
			PH:             r.PH,
			Turbidity:      r.Turbidity,
			TDS:            r.TDS,
			PeopleAffected: r.PeopleAffected,
			Location:       r.Location,
			State:          r.State,
			District:       r.District,
			CollectedBy:    r.CollectedBy,
		}
	}
	return v
}

func (h *RecordsHandler) GetRecords(c *gin.Context) {
	rows, err := h.repo.ListRecords(c.Request.Context(), ParseLimit(c), c.Query("state"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	out := make([]recordView, 0, len(rows))
	for _, p := range rows {
		out = append(out, newRecordView(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecordsHandler) GetStatistics(c *gin.Context) {
	state := c.Param("state")
	key := services.StatisticsCacheKey(state)

	var cached repository.StateStatistics
	if found, err := h.cache.Get(c.Request.Context(), key, &cached); err == nil && found {
		c.JSON(http.StatusOK, cached)
		return
	}

	stats, err := h.repo.StateStatistics(c.Request.Context(), state)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	h.storeAggregate(c, key, stats)
	c.JSON(http.StatusOK, stats)
}

func (h *RecordsHandler) GetDashboard(c *gin.Context) {
	var cached repository.Dashboard
	if found, err := h.cache.Get(c.Request.Context(), services.DashboardCacheKey, &cached); err == nil && found {
		c.JSON(http.StatusOK, cached)
		return
	}

	d, err := h.repo.Dashboard(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	h.storeAggregate(c, services.DashboardCacheKey, d)
	c.JSON(http.StatusOK, d)
}

// storeAggregate caches a computed aggregate. Failures only cost a cache miss.
func (h *RecordsHandler) storeAggregate(c *gin.Context, key string, v interface{}) {
	if err := h.cache.Set(c.Request.Context(), key, v, aggregateTTL); err != nil {
		_ = c.Error(err)
	}
}
