package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func intPtr(v int) *int      { return &v }

func TestListVitalsPaging(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		state := "Assam"
		if i%2 == 1 {
			state = "Sikkim"
		}
		rec := &models.VitalsRecord{State: strPtr(state), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.CreateVitals(ctx, rec))
	}

	page, err := repo.ListVitals(ctx, VitalsFilter{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Records, 2)
	assert.Equal(t, uint(5), page.Records[0].ID)

	last, err := repo.ListVitals(ctx, VitalsFilter{Page: 3, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, last.Records, 1)
	assert.Equal(t, uint(1), last.Records[0].ID)

	assam, err := repo.ListVitals(ctx, VitalsFilter{State: "Assam"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, assam.Total)
	assert.Equal(t, 1, assam.Pages)

	empty, err := repo.ListVitals(ctx, VitalsFilter{State: "Goa"})
	require.NoError(t, err)
	assert.Zero(t, empty.Pages)
	assert.NotNil(t, empty.Records)

	for _, p := range []int{4, math.MaxInt / 2, math.MaxInt} {
		beyond, err := repo.ListVitals(ctx, VitalsFilter{Page: p, PerPage: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 5, beyond.Total)
		assert.Equal(t, p, beyond.CurrentPage)
		assert.Empty(t, beyond.Records, "page %d", p)
	}
}

func TestVitalsStats(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	recs := []*models.VitalsRecord{
		{Temperature: f64(38.0), SystolicBP: intPtr(120), State: strPtr("Assam"), CreatedAt: now.Add(-30 * 24 * time.Hour)},
		{Temperature: f64(37.25), BloodOxygen: f64(97), State: strPtr("Assam"), CreatedAt: now.Add(-time.Hour)},
		{Temperature: f64(40.0), State: strPtr("Sikkim"), CreatedAt: now.Add(-2 * time.Hour)},
	}
	for _, r := range recs {
		require.NoError(t, repo.CreateVitals(ctx, r))
	}

	all, err := repo.VitalsStats(ctx, "", now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.TotalRecords)
	assert.EqualValues(t, 2, all.RecentRecords)
	assert.InDelta(t, 38.4, all.AverageMetrics.Temperature, 1e-9)
	assert.InDelta(t, 120.0, all.AverageMetrics.SystolicBP, 1e-9)
	assert.Zero(t, all.AverageMetrics.DiastolicBP)
	assert.InDelta(t, 97.0, all.AverageMetrics.BloodOxygen, 1e-9)

	assam, err := repo.VitalsStats(ctx, "Assam", now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, assam.TotalRecords)
	assert.EqualValues(t, 1, assam.RecentRecords)
	assert.InDelta(t, 37.6, assam.AverageMetrics.Temperature, 1e-9)
}

func TestSymptomStats(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, n := range []*string{
		strPtr("Symptom: Fever"),
		strPtr("Symptom: Vomiting"),
		strPtr("Symptom: Fever"),
		strPtr("follow up next week"),
		nil,
	} {
		require.NoError(t, repo.CreateVitals(ctx, &models.VitalsRecord{Notes: n, State: strPtr("Assam")}))
	}

	stats, err := repo.SymptomStats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []SymptomCount{{"Fever", 2}, {"Vomiting", 1}}, stats.Symptoms)
	assert.Equal(t, 3, stats.TotalRecords)

	none, err := repo.SymptomStats(ctx, "Sikkim")
	require.NoError(t, err)
	assert.Empty(t, none.Symptoms)
	assert.Zero(t, none.TotalRecords)
}

func TestCountSymptoms(t *testing.T) {
	got := CountSymptoms([]string{
		"Symptom: Rash",
		"Symptom:  Cough ",
		"symptom: Cough",
		"Notes Symptom: Cough",
		"Symptom: Cough",
		"Symptom: Rash Symptom: ",
		"Symptom:   ",
	})
	assert.Equal(t, []SymptomCount{
		{Symptom: "Rash", Count: 2},
		{Symptom: "Cough", Count: 2},
	}, got)

	assert.Empty(t, CountSymptoms(nil))
}

func TestDeleteVitals(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	rec := &models.VitalsRecord{Temperature: f64(36.6)}
	require.NoError(t, repo.CreateVitals(ctx, rec))

	require.NoError(t, repo.DeleteVitals(ctx, rec.ID))
	err := repo.DeleteVitals(ctx, rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
