package models

import "time"

const (
	AlertLevelHigh   = "HIGH"
	AlertLevelMedium = "MEDIUM"
	AlertLevelLow    = "LOW"

	AlertStatusActive        = "ACTIVE"
	AlertStatusInvestigating = "INVESTIGATING"
	AlertStatusResolved      = "RESOLVED"
)

var highRiskDiseases = map[string]struct{}{
	"Cholera": {},
	"Typhoid": {},
}

// SeverityFor maps a predicted disease label to an alert level. It is total
// over labels; callers must not raise alerts for NoDisease.
func SeverityFor(label string) string {
	if _, ok := highRiskDiseases[label]; ok {
		return AlertLevelHigh
	}
	if label == "Diarrhea" {
		return AlertLevelMedium
	}
	return AlertLevelLow
}

// ValidAlertStatus reports whether status is one of the workflow states.
func ValidAlertStatus(status string) bool {
	switch status {
	case AlertStatusActive, AlertStatusInvestigating, AlertStatusResolved:
		return true
	}
	return false
}

type Alert struct {
	ID             uint        `gorm:"column:id;primaryKey" json:"id"`
	PredictionID   uint        `gorm:"column:prediction_id;not null;index" json:"prediction_id"`
	Level          string      `gorm:"column:alert_level;size:20;not null" json:"alert_level"`
	Status         string      `gorm:"column:status;size:20;not null;default:ACTIVE;index" json:"status"`
	AssignedTo     *uint       `gorm:"column:assigned_to" json:"assigned_to"`
	Notes          *string     `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Prediction     *Prediction `gorm:"foreignKey:PredictionID" json:"prediction,omitempty"`
	AssignedWorker *Worker     `gorm:"foreignKey:AssignedTo" json:"assigned_worker"`
}

func (Alert) TableName() string { return "alerts" }
