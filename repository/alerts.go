package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harish-hex/SIH-HealthTwin/models"

	"gorm.io/gorm"
)

// ListAlerts returns alerts in the given workflow status (ACTIVE when empty)
// with their prediction, reading and assigned worker, newest first.
func (r *Repository) ListAlerts(ctx context.Context, status, state string) ([]models.Alert, error) {
	if status == "" {
		status = models.AlertStatusActive
	}

	q := r.db.WithContext(ctx).Model(&models.Alert{}).
		Joins("JOIN predictions ON predictions.id = alerts.prediction_id").
		Joins("JOIN water_quality_readings ON water_quality_readings.id = predictions.reading_id").
		Where("alerts.status = ?", status).
		Preload("Prediction.Reading").
		Preload("AssignedWorker").
		Order("alerts.created_at DESC").
		Order("alerts.id DESC")
	if state != "" {
		q = q.Where("water_quality_readings.state = ?", state)
	}

	alerts := make([]models.Alert, 0)
	if err := q.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// AlertUpdate carries the mutable alert fields. Nil fields are left alone.
type AlertUpdate struct {
	Status     *string
	AssignedTo *uint
	Notes      *string
}

// UpdateAlert moves an alert through its workflow, assigns a worker or sets
// notes. It returns ErrNotFound, ErrInvalidStatus or ErrUnknownWorker for bad
// input.
func (r *Repository) UpdateAlert(ctx context.Context, id uint, upd AlertUpdate) (*models.Alert, error) {
	if upd.Status != nil && !models.ValidAlertStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *upd.Status)
	}

	var alert models.Alert
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&alert, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		changes := map[string]interface{}{}
		if upd.Status != nil {
			changes["status"] = *upd.Status
		}
		if upd.Notes != nil {
			changes["notes"] = *upd.Notes
		}
		if upd.AssignedTo != nil {
			var n int64
			if err := tx.Model(&models.Worker{}).Where("id = ?", *upd.AssignedTo).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: %d", ErrUnknownWorker, *upd.AssignedTo)
			}
			changes["assigned_to"] = *upd.AssignedTo
		}
		if len(changes) > 0 {
			if err := tx.Model(&alert).Updates(changes).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Prediction.Reading").Preload("AssignedWorker").First(&alert, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update alert %d: %w", id, err)
	}
	return &alert, nil
}
