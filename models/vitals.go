package models

import "time"

// VitalsRecord is a patient vitals snapshot taken by a field worker. Notes
// may carry a "Symptom: <name>" line used for symptom counting.
type VitalsRecord struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	Temperature   *float64  `gorm:"column:temperature" json:"temperature"`
	SystolicBP    *int      `gorm:"column:systolic_bp" json:"systolic_bp"`
	DiastolicBP   *int      `gorm:"column:diastolic_bp" json:"diastolic_bp"`
	BloodOxygen   *float64  `gorm:"column:blood_oxygen" json:"blood_oxygen"`
	PatientName   *string   `gorm:"column:patient_name;size:100" json:"patient_name"`
	PatientAge    *int      `gorm:"column:patient_age" json:"patient_age"`
	PatientGender *string   `gorm:"column:patient_gender;size:10" json:"patient_gender"`
	Location      *string   `gorm:"column:location;size:100" json:"location"`
	State         *string   `gorm:"column:state;size:50;index" json:"state"`
	District      *string   `gorm:"column:district;size:50;index" json:"district"`
	RecordedBy    *string   `gorm:"column:recorded_by;size:100" json:"recorded_by"`
	Notes         *string   `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index" json:"timestamp"`
}

func (VitalsRecord) TableName() string { return "vitals_records" }
