package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Harish-hex/SIH-HealthTwin/models"
)

// ErrInvalidField reports a payload value that could not be coerced to the
// type its field needs.
var ErrInvalidField = errors.New("invalid field")

const (
	defaultMetadata    = "Unknown"
	defaultCollectedBy = "System"
)

// Sample is the classifier input in feature order.
type Sample struct {
	PH             float64
	Turbidity      float64
	TDS            float64
	PeopleAffected int
}

func (s Sample) Features() []float64 {
	return []float64{s.PH, s.Turbidity, s.TDS, float64(s.PeopleAffected)}
}

// Metadata describes where and by whom a reading was taken.
type Metadata struct {
	Location    string
	State       string
	District    string
	CollectedBy string
}

// DecodeSample coerces a decoded JSON body into a Sample and its metadata.
// Numbers may arrive as JSON numbers or numeric strings. Missing metadata
// falls back to "Unknown", or "System" for the collector.
func DecodeSample(body map[string]interface{}) (Sample, Metadata, error) {
	var s Sample
	var err error

	if s.PH, err = requiredFloat(body, "ph"); err != nil {
		return Sample{}, Metadata{}, err
	}
	if s.Turbidity, err = requiredFloat(body, "turbidity"); err != nil {
		return Sample{}, Metadata{}, err
	}
	if s.TDS, err = requiredFloat(body, "tds"); err != nil {
		return Sample{}, Metadata{}, err
	}
	raw, ok := body["people_affected_per_5000"]
	if !ok || raw == nil {
		return Sample{}, Metadata{}, fmt.Errorf("%w: people_affected_per_5000 is required", ErrInvalidField)
	}
	if s.PeopleAffected, err = CoerceInt("people_affected_per_5000", raw); err != nil {
		return Sample{}, Metadata{}, err
	}

	meta := Metadata{
		Location:    stringOr(body, "location", defaultMetadata),
		State:       stringOr(body, "state", defaultMetadata),
		District:    stringOr(body, "district", defaultMetadata),
		CollectedBy: stringOr(body, "collected_by", defaultCollectedBy),
	}
	return s, meta, nil
}

func requiredFloat(body map[string]interface{}, key string) (float64, error) {
	raw, ok := body[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidField, key)
	}
	return CoerceFloat(key, raw)
}

func stringOr(body map[string]interface{}, key, fallback string) string {
	raw, ok := body[key]
	if !ok || raw == nil {
		return fallback
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

// CoerceFloat accepts a JSON number or a numeric string.
func CoerceFloat(field string, v interface{}) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidField, field, t)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidField, field, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrInvalidField, field)
	}
	return f, nil
}

// CoerceInt accepts a JSON number, truncated toward zero, or an integer
// string.
func CoerceInt(field string, v interface{}) (int, error) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("%w: %s is not finite", ErrInvalidField, field)
		}
		if math.Abs(t) >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidField, field)
		}
		return int(t), nil
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidField, field, t)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidField, field, v)
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	}
	return true
}

func optionalString(body map[string]interface{}, key string) *string {
	raw, ok := body[key]
	if !ok || raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		s = fmt.Sprint(raw)
	}
	return &s
}

// DecodeVitals builds a vitals record from a decoded JSON body. Numeric
// fields that are absent, zero or empty are stored as null.
func DecodeVitals(body map[string]interface{}) (*models.VitalsRecord, error) {
	rec := &models.VitalsRecord{
		PatientName:   optionalString(body, "patient_name"),
		PatientGender: optionalString(body, "patient_gender"),
		Location:      optionalString(body, "location"),
		State:         optionalString(body, "state"),
		District:      optionalString(body, "district"),
		RecordedBy:    optionalString(body, "recorded_by"),
		Notes:         optionalString(body, "notes"),
	}

	floats := []struct {
		key  string
		dest **float64
	}{
		{"temperature", &rec.Temperature},
		{"blood_oxygen", &rec.BloodOxygen},
	}
	for _, f := range floats {
		if !truthy(body[f.key]) {
			continue
		}
		v, err := CoerceFloat(f.key, body[f.key])
		if err != nil {
			return nil, err
		}
		*f.dest = &v
	}

	ints := []struct {
		key  string
		dest **int
	}{
		{"systolic_bp", &rec.SystolicBP},
		{"diastolic_bp", &rec.DiastolicBP},
		{"patient_age", &rec.PatientAge},
	}
	for _, f := range ints {
		if !truthy(body[f.key]) {
			continue
		}
		v, err := CoerceInt(f.key, body[f.key])
		if err != nil {
			return nil, err
		}
		*f.dest = &v
	}

	return rec, nil
}
