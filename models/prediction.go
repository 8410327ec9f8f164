package models

import "time"

// NoDisease is the label the classifier emits for a reading with no outbreak risk.
const NoDisease = "None"

type Prediction struct {
	ID               uint                 `gorm:"column:id;primaryKey" json:"id"`
	ReadingID        uint                 `gorm:"column:reading_id;not null;index" json:"water_quality_id"`
	PredictedDisease string               `gorm:"column:predicted_disease;size:100;not null;index" json:"predicted_disease"`
	HealthAlert      string               `gorm:"column:health_alert;type:text;not null" json:"health_alert"`
	ConfidenceScore  *float64             `gorm:"column:confidence_score" json:"confidence_score"`
	ModelVersion     string               `gorm:"column:model_version;size:20;default:1.0" json:"model_version"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime;index" json:"timestamp"`
	Reading          *WaterQualityReading `gorm:"foreignKey:ReadingID" json:"water_quality,omitempty"`
	Alert            *Alert               `gorm:"-" json:"alert,omitempty"`
}

func (Prediction) TableName() string { return "predictions" }

// HasOutbreak reports whether the prediction carries a disease label.
func (p Prediction) HasOutbreak() bool {
	return p.PredictedDisease != NoDisease
}
