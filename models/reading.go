package models

import "time"

type WaterQualityReading struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	PH             float64   `gorm:"column:ph;not null" json:"ph"`
	Turbidity      float64   `gorm:"column:turbidity;not null" json:"turbidity"`
	TDS            float64   `gorm:"column:tds;not null" json:"tds"`
	PeopleAffected int       `gorm:"column:people_affected_per_5000;not null" json:"people_affected_per_5000"`
	Location       *string   `gorm:"column:location;size:100" json:"location"`
	State          *string   `gorm:"column:state;size:50;index" json:"state"`
	District       *string   `gorm:"column:district;size:50" json:"district"`
	CollectedBy    *string   `gorm:"column:collected_by;size:100" json:"collected_by"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"timestamp"`
}

func (WaterQualityReading) TableName() string { return "water_quality_readings" }
