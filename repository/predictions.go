package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/Harish-hex/SIH-HealthTwin/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordPrediction stores a reading, its prediction and, when the label is
// not NoDisease, an ACTIVE alert, all in one transaction. Nothing is written
// if any insert fails. The returned prediction carries its reading and alert.
func (r *Repository) RecordPrediction(ctx context.Context, reading models.WaterQualityReading, pred models.Prediction) (*models.Prediction, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reading).Error; err != nil {
			return fmt.Errorf("insert reading: %w", err)
		}

		pred.ReadingID = reading.ID
		if err := tx.Omit(clause.Associations).Create(&pred).Error; err != nil {
			return fmt.Errorf("insert prediction: %w", err)
		}

		if !pred.HasOutbreak() {
			return nil
		}
		alert := models.Alert{
			PredictionID: pred.ID,
			Level:        models.SeverityFor(pred.PredictedDisease),
			Status:       models.AlertStatusActive,
		}
		if err := tx.Omit(clause.Associations).Create(&alert).Error; err != nil {
			return fmt.Errorf("insert alert: %w", err)
		}
		pred.Alert = &alert
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record prediction: %w", err)
	}

	pred.Reading = &reading
	return &pred, nil
}

// ListRecords returns the newest predictions with their readings, optionally
// restricted to one state.
func (r *Repository) ListRecords(ctx context.Context, limit int, state string) ([]models.Prediction, error) {
	q := r.db.WithContext(ctx).Model(&models.Prediction{}).
		Joins("JOIN water_quality_readings ON water_quality_readings.id = predictions.reading_id").
		Preload("Reading").
		Order("predictions.created_at DESC").
		Order("predictions.id DESC").
		Limit(limit)
	if state != "" {
		q = q.Where("water_quality_readings.state = ?", state)
	}

	rows := make([]models.Prediction, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return rows, nil
}

type DiseaseStat struct {
	Disease      string   `json:"disease"`
	Count        int64    `json:"count"`
	AvgPH        *float64 `json:"avg_ph"`
	AvgTurbidity *float64 `json:"avg_turbidity"`
	AvgTDS       *float64 `json:"avg_tds"`
}

type StateStatistics struct {
	State        string        `json:"state"`
	Statistics   []DiseaseStat `json:"statistics"`
	TotalRecords int64         `json:"total_records"`
}

type diseaseStatRow struct {
	Disease      string  `gorm:"column:disease"`
	Total        int64   `gorm:"column:total"`
	AvgPH        float64 `gorm:"column:avg_ph"`
	AvgTurbidity float64 `gorm:"column:avg_turbidity"`
	AvgTDS       float64 `gorm:"column:avg_tds"`
}

// StateStatistics groups one state's predictions by label with the mean
// water-quality values of each group. A state without rows yields an empty
// list, not an error.
func (r *Repository) StateStatistics(ctx context.Context, state string) (*StateStatistics, error) {
	var rows []diseaseStatRow
	err := r.db.WithContext(ctx).Table("predictions").
		Select(`predictions.predicted_disease AS disease,
			COUNT(predictions.id) AS total,
			AVG(water_quality_readings.ph) AS avg_ph,
			AVG(water_quality_readings.turbidity) AS avg_turbidity,
			AVG(water_quality_readings.tds) AS avg_tds`).
		Joins("JOIN water_quality_readings ON water_quality_readings.id = predictions.reading_id").
		Where("water_quality_readings.state = ?", state).
		Group("predictions.predicted_disease").
		Order("predictions.predicted_disease").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("state statistics: %w", err)
	}

	out := &StateStatistics{State: state, Statistics: make([]DiseaseStat, 0, len(rows))}
	for _, row := range rows {
		out.Statistics = append(out.Statistics, DiseaseStat{
			Disease:      row.Disease,
			Count:        row.Total,
			AvgPH:        roundedMean(row.AvgPH, 2),
			AvgTurbidity: roundedMean(row.AvgTurbidity, 2),
			AvgTDS:       roundedMean(row.AvgTDS, 2),
		})
		out.TotalRecords += row.Total
	}
	return out, nil
}

// roundedMean rounds v to places decimals. A zero mean is reported as
// absent, matching what the dashboards already expect.
func roundedMean(v float64, places int) *float64 {
	if v == 0 {
		return nil
	}
	rounded := round(v, places)
	return &rounded
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

type DashboardSummary struct {
	TotalRecords int64 `json:"total_records"`
	ActiveAlerts int64 `json:"active_alerts"`
	TotalWorkers int64 `json:"total_workers"`
}

type DiseaseCount struct {
	Disease string `json:"disease" gorm:"column:disease"`
	Count   int64  `json:"count" gorm:"column:total"`
}

type StateBreakdown struct {
	State              *string `json:"state" gorm:"column:state"`
	TotalPredictions   int64   `json:"total_predictions" gorm:"column:total_predictions"`
	DiseasePredictions int64   `json:"disease_predictions" gorm:"column:disease_predictions"`
}

type Dashboard struct {
	Summary          DashboardSummary `json:"summary"`
	DiseaseBreakdown []DiseaseCount   `json:"disease_breakdown"`
	StateBreakdown   []StateBreakdown `json:"state_breakdown"`
}

// Dashboard rolls up prediction, alert and roster counts.
func (r *Repository) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := r.db.WithContext(ctx)
	out := &Dashboard{
		DiseaseBreakdown: make([]DiseaseCount, 0),
		StateBreakdown:   make([]StateBreakdown, 0),
	}

	if err := db.Model(&models.Prediction{}).Count(&out.Summary.TotalRecords).Error; err != nil {
		return nil, fmt.Errorf("count predictions: %w", err)
	}
	if err := db.Model(&models.Alert{}).
		Where("status = ?", models.AlertStatusActive).
		Count(&out.Summary.ActiveAlerts).Error; err != nil {
		return nil, fmt.Errorf("count active alerts: %w", err)
	}
	if err := db.Model(&models.Worker{}).
		Where("is_active = ?", true).
		Count(&out.Summary.TotalWorkers).Error; err != nil {
		return nil, fmt.Errorf("count workers: %w", err)
	}

	if err := db.Model(&models.Prediction{}).
		Select("predicted_disease AS disease, COUNT(id) AS total").
		Group("predicted_disease").
		Order("predicted_disease").
		Scan(&out.DiseaseBreakdown).Error; err != nil {
		return nil, fmt.Errorf("disease breakdown: %w", err)
	}

	if err := db.Table("predictions").
		Select(`water_quality_readings.state AS state,
			COUNT(predictions.id) AS total_predictions,
			SUM(CASE WHEN predictions.predicted_disease <> ? THEN 1 ELSE 0 END) AS disease_predictions`,
			models.NoDisease).
		Joins("JOIN water_quality_readings ON water_quality_readings.id = predictions.reading_id").
		Group("water_quality_readings.state").
		Order("water_quality_readings.state").
		Scan(&out.StateBreakdown).Error; err != nil {
		return nil, fmt.Errorf("state breakdown: %w", err)
	}

	return out, nil
}
