package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/models"

	"gorm.io/gorm"
)

// SymptomPrefix marks a vitals note that names a reported symptom.
const SymptomPrefix = "Symptom: "

const recentWindow = 7 * 24 * time.Hour

func (r *Repository) CreateVitals(ctx context.Context, rec *models.VitalsRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create vitals: %w", err)
	}
	return nil
}

type VitalsFilter struct {
	State    string
	District string
	Page     int
	PerPage  int
}

type VitalsPage struct {
	Records     []models.VitalsRecord `json:"records"`
	Total       int64                 `json:"total"`
	Pages       int                   `json:"pages"`
	CurrentPage int                   `json:"current_page"`
}

func (r *Repository) vitalsScope(ctx context.Context, state, district string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.VitalsRecord{})
	if state != "" {
		q = q.Where("state = ?", state)
	}
	if district != "" {
		q = q.Where("district = ?", district)
	}
	return q
}

// ListVitals pages through vitals records, newest first.
func (r *Repository) ListVitals(ctx context.Context, f VitalsFilter) (*VitalsPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 50
	}

	page := &VitalsPage{Records: make([]models.VitalsRecord, 0), CurrentPage: f.Page}
	if err := r.vitalsScope(ctx, f.State, f.District).Count(&page.Total).Error; err != nil {
		return nil, fmt.Errorf("count vitals: %w", err)
	}
	page.Pages = int((page.Total + int64(f.PerPage) - 1) / int64(f.PerPage))
	if f.Page > page.Pages {
		return page, nil
	}

	err := r.vitalsScope(ctx, f.State, f.District).
		Order("created_at DESC").
		Order("id DESC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&page.Records).Error
	if err != nil {
		return nil, fmt.Errorf("list vitals: %w", err)
	}
	return page, nil
}

type VitalsAverages struct {
	Temperature float64 `json:"temperature"`
	SystolicBP  float64 `json:"systolic_bp"`
	DiastolicBP float64 `json:"diastolic_bp"`
	BloodOxygen float64 `json:"blood_oxygen"`
}

type VitalsStats struct {
	TotalRecords   int64          `json:"total_records"`
	RecentRecords  int64          `json:"recent_records"`
	AverageMetrics VitalsAverages `json:"average_metrics"`
}

type vitalsAvgRow struct {
	Temperature *float64 `gorm:"column:temperature"`
	SystolicBP  *float64 `gorm:"column:systolic_bp"`
	DiastolicBP *float64 `gorm:"column:diastolic_bp"`
	BloodOxygen *float64 `gorm:"column:blood_oxygen"`
}

// VitalsStats counts records overall and within the last seven days before
// now, and averages each vital over its non-null values.
func (r *Repository) VitalsStats(ctx context.Context, state string, now time.Time) (*VitalsStats, error) {
	out := &VitalsStats{}
	if err := r.vitalsScope(ctx, state, "").Count(&out.TotalRecords).Error; err != nil {
		return nil, fmt.Errorf("count vitals: %w", err)
	}
	if err := r.vitalsScope(ctx, state, "").
		Where("created_at >= ?", now.Add(-recentWindow)).
		Count(&out.RecentRecords).Error; err != nil {
		return nil, fmt.Errorf("count recent vitals: %w", err)
	}

	var row vitalsAvgRow
	err := r.vitalsScope(ctx, state, "").
		Select(`AVG(temperature) AS temperature,
			AVG(systolic_bp) AS systolic_bp,
			AVG(diastolic_bp) AS diastolic_bp,
			AVG(blood_oxygen) AS blood_oxygen`).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("average vitals: %w", err)
	}

	out.AverageMetrics = VitalsAverages{
		Temperature: roundOrZero(row.Temperature),
		SystolicBP:  roundOrZero(row.SystolicBP),
		DiastolicBP: roundOrZero(row.DiastolicBP),
		BloodOxygen: roundOrZero(row.BloodOxygen),
	}
	return out, nil
}

func roundOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return round(*v, 1)
}

type SymptomCount struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

type SymptomStats struct {
	Symptoms     []SymptomCount `json:"symptom_statistics"`
	TotalRecords int            `json:"total_symptom_records"`
}

// SymptomStats tallies the symptoms named in vitals notes.
func (r *Repository) SymptomStats(ctx context.Context, state string) (*SymptomStats, error) {
	var notes []string
	err := r.vitalsScope(ctx, state, "").
		Where("notes IS NOT NULL").
		Order("id").
		Pluck("notes", &notes).Error
	if err != nil {
		return nil, fmt.Errorf("symptom notes: %w", err)
	}

	counts := CountSymptoms(notes)
	out := &SymptomStats{Symptoms: counts}
	for _, c := range counts {
		out.TotalRecords += c.Count
	}
	return out, nil
}

// CountSymptoms counts notes that start with SymptomPrefix, keyed by the text
// that follows it. Notes naming no symptom are skipped. Results are ordered
// by count, most frequent first; equal counts keep first-appearance order.
func CountSymptoms(notes []string) []SymptomCount {
	index := map[string]int{}
	counts := make([]SymptomCount, 0)
	for _, note := range notes {
		if !strings.HasPrefix(note, SymptomPrefix) {
			continue
		}
		symptom := strings.TrimSpace(strings.ReplaceAll(note, SymptomPrefix, ""))
		if symptom == "" {
			continue
		}
		if i, ok := index[symptom]; ok {
			counts[i].Count++
			continue
		}
		index[symptom] = len(counts)
		counts = append(counts, SymptomCount{Symptom: symptom, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// DeleteVitals removes one vitals record.
func (r *Repository) DeleteVitals(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.VitalsRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete vitals %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
