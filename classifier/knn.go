package classifier

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//go:embed sample_model.json
var sampleModel []byte

const exactMatchTolerance = 1e-9

// ModelFile is the on-disk model format.
type ModelFile struct {
	Version  string   `json:"version"`
	K        int      `json:"k"`
	Features []string `json:"features"`
	Samples  []Sample `json:"samples"`
}

type Sample struct {
	X     []float64 `json:"x"`
	Label string    `json:"label"`
}

// KNN is a distance-weighted k-nearest-neighbour classifier over
// standardized features.
type KNN struct {
	version string
	k       int
	mean    []float64
	std     []float64
	points  [][]float64
	labels  []string
}

// Load reads a model file from path.
func Load(path string) (*KNN, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	defer f.Close()
	return Decode(f)
}

// LoadDefault returns the model built from the embedded sample dataset.
func LoadDefault() (*KNN, error) {
	return Decode(bytes.NewReader(sampleModel))
}

func Decode(r io.Reader) (*KNN, error) {
	var mf ModelFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("%w: decode model: %w", ErrModelUnavailable, err)
	}
	knn, err := NewKNN(mf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	return knn, nil
}

func NewKNN(mf ModelFile) (*KNN, error) {
	if len(mf.Samples) == 0 {
		return nil, fmt.Errorf("model has no samples")
	}
	if len(mf.Features) != 0 && len(mf.Features) != len(FeatureNames) {
		return nil, fmt.Errorf("model has %d features, want %d", len(mf.Features), len(FeatureNames))
	}
	for i, name := range mf.Features {
		if name != FeatureNames[i] {
			return nil, fmt.Errorf("feature %d is %q, want %q", i, name, FeatureNames[i])
		}
	}
	k := mf.K
	if k <= 0 {
		k = 3
	}
	if k > len(mf.Samples) {
		k = len(mf.Samples)
	}

	dims := len(FeatureNames)
	m := &KNN{
		version: mf.Version,
		k:       k,
		mean:    make([]float64, dims),
		std:     make([]float64, dims),
		points:  make([][]float64, len(mf.Samples)),
		labels:  make([]string, len(mf.Samples)),
	}
	if m.version == "" {
		m.version = "1.0"
	}

	column := make([]float64, len(mf.Samples))
	for j := 0; j < dims; j++ {
		for i, s := range mf.Samples {
			if len(s.X) != dims {
				return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(s.X), dims)
			}
			column[i] = s.X[j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		m.mean[j], m.std[j] = mean, std
	}

	for i, s := range mf.Samples {
		if s.Label == "" {
			return nil, fmt.Errorf("sample %d has an empty label", i)
		}
		m.points[i] = m.standardize(s.X)
		m.labels[i] = s.Label
	}
	return m, nil
}

func (m *KNN) Version() string { return m.version }

func (m *KNN) standardize(x []float64) []float64 {
	z := make([]float64, len(x))
	floats.SubTo(z, x, m.mean)
	floats.Div(z, m.std)
	return z
}

type neighbor struct {
	index int
	dist  float64
}

func (m *KNN) Predict(_ context.Context, features []float64) (Result, error) {
	if err := checkFeatures(features); err != nil {
		return Result{}, err
	}
	z := m.standardize(features)

	neighbors := make([]neighbor, len(m.points))
	for i, p := range m.points {
		neighbors[i] = neighbor{index: i, dist: floats.Distance(z, p, 2)}
	}
	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].dist < neighbors[b].dist
	})

	if neighbors[0].dist <= exactMatchTolerance {
		one := 1.0
		return Result{Label: m.labels[neighbors[0].index], Confidence: &one}, nil
	}

	weights := make(map[string]float64)
	var total float64
	for _, n := range neighbors[:m.k] {
		w := 1 / n.dist
		weights[m.labels[n.index]] += w
		total += w
	}

	var best string
	var bestWeight float64
	for label, w := range weights {
		if w > bestWeight || (w == bestWeight && label < best) {
			best, bestWeight = label, w
		}
	}
	confidence := bestWeight / total
	if best == "" || math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return Result{}, fmt.Errorf("%w: no usable neighbours", ErrModelUnavailable)
	}
	return Result{Label: best, Confidence: &confidence}, nil
}
