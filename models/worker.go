package models

import "time"

type Worker struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	WorkerID     string    `gorm:"column:worker_id;size:50;uniqueIndex;not null" json:"worker_id"`
	Role         string    `gorm:"column:role;size:50;not null" json:"role"`
	State        string    `gorm:"column:state;size:50;not null;index" json:"state"`
	District     string    `gorm:"column:district;size:50;not null" json:"district"`
	ContactPhone *string   `gorm:"column:contact_phone;size:15" json:"contact_phone"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Worker) TableName() string { return "health_workers" }
