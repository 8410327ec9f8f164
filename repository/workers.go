package repository

import (
	"context"
	"fmt"

	"github.com/Harish-hex/SIH-HealthTwin/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListWorkers returns the active roster, optionally limited to one state.
func (r *Repository) ListWorkers(ctx context.Context, state string) ([]models.Worker, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id")
	if state != "" {
		q = q.Where("state = ?", state)
	}

	workers := make([]models.Worker, 0)
	if err := q.Find(&workers).Error; err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return workers, nil
}

func phone(n string) *string { return &n }

// DefaultWorkers is the roster used to populate an empty database, one
// field worker per north-eastern state.
var DefaultWorkers = []models.Worker{
	{Name: "Priya Sharma", WorkerID: "AS001", Role: "ASHA", State: "Assam", District: "Guwahati", ContactPhone: phone("+91-9876543210")},
	{Name: "Tenzin Norbu", WorkerID: "AP001", Role: "PHC", State: "Arunachal Pradesh", District: "Itanagar", ContactPhone: phone("+91-9876543211")},
	{Name: "Mary Kom", WorkerID: "MN001", Role: "ANM", State: "Manipur", District: "Imphal", ContactPhone: phone("+91-9876543212")},
	{Name: "Daisy Lyngdoh", WorkerID: "ML001", Role: "ASHA", State: "Meghalaya", District: "Shillong", ContactPhone: phone("+91-9876543213")},
	{Name: "Lalrinsanga", WorkerID: "MZ001", Role: "PHC", State: "Mizoram", District: "Aizawl", ContactPhone: phone("+91-9876543214")},
	{Name: "Naga Ao", WorkerID: "NL001", Role: "ANM", State: "Nagaland", District: "Kohima", ContactPhone: phone("+91-9876543215")},
	{Name: "Pema Tshering", WorkerID: "SK001", Role: "ASHA", State: "Sikkim", District: "Gangtok", ContactPhone: phone("+91-9876543216")},
	{Name: "Biplab Debbarma", WorkerID: "TR001", Role: "PHC", State: "Tripura", District: "Agartala", ContactPhone: phone("+91-9876543217")},
}

// SeedWorkers inserts DefaultWorkers when the roster table is empty and
// reports how many rows it wrote.
func (r *Repository) SeedWorkers(ctx context.Context) (int, error) {
	seeded := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Worker{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		workers := make([]models.Worker, len(DefaultWorkers))
		for i, w := range DefaultWorkers {
			w.IsActive = true
			workers[i] = w
		}
		if err := tx.Create(&workers).Error; err != nil {
			return err
		}
		seeded = len(workers)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed workers: %w", err)
	}
	if seeded > 0 {
		r.logger.Info("seeded health workers", zap.Int("count", seeded))
	}
	return seeded, nil
}
