// Package svm implements a one-vs-rest linear support vector classifier over
// sparse TF-IDF feature vectors.
package svm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/samber/lo"

	"github.com/kamusis/triage/internal/features"
)

// ClassStats reports how the binary problem of one class was solved.
type ClassStats struct {
	Class      string
	Iterations int
	Converged  bool
}

// Model is a fitted one-vs-rest classifier: one weight vector and bias per class.
//
// The zero value is unfit; Predict on it returns ErrNotFitted. A fitted Model
// is never mutated and is safe for concurrent use.
type Model struct {
	classes []string
	weights [][]float64
	biases  []float64
	dim     int
	stats   []ClassStats
}

// Train fits one binary classifier per class on (vectors, labels).
//
// Either every class is fitted and a Model is returned, or an error is
// returned and no Model exists.
func Train(ctx context.Context, vectors []features.Vector, labels []string, dim int, params Params, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("%w: %d vectors, %d labels", ErrLabelMismatch, len(vectors), len(labels))
	}
	params = params.withDefaults()
	if params.Loss != LossHinge && params.Loss != LossSquaredHinge {
		return nil, fmt.Errorf("unsupported loss %q", params.Loss)
	}

	classes, err := orderClasses(labels, params.Classes)
	if err != nil {
		return nil, err
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientClasses, len(classes))
	}

	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrDimMismatch, dim)
	}
	for i, x := range vectors {
		if x.Dim != dim {
			return nil, fmt.Errorf("%w: vector %d has dim %d, want %d", ErrDimMismatch, i, x.Dim, dim)
		}
	}

	bias := params.InterceptScaling
	if params.NoIntercept {
		bias = 0
	}

	m := &Model{
		classes: classes,
		weights: make([][]float64, len(classes)),
		biases:  make([]float64, len(classes)),
		dim:     dim,
		stats:   make([]ClassStats, len(classes)),
	}
	for k, class := range classes {
		y := make([]float64, len(labels))
		for i, lbl := range labels {
			y[i] = -1
			if lbl == class {
				y[i] = 1
			}
		}

		rng := rand.New(rand.NewPCG(params.Seed, uint64(k)))
		res, err := solveDual(ctx, binaryProblem{x: vectors, y: y, dim: dim, bias: bias}, params, rng)
		if err != nil {
			return nil, fmt.Errorf("training class %q: %w", class, err)
		}
		if !res.converged {
			logger.Warn("binary solver did not converge; consider raising max_iter",
				"class", class, "iterations", res.iters)
		}
		logger.Debug("class fitted", "class", class, "iterations", res.iters, "positives", lo.Count(labels, class))

		m.weights[k] = res.w
		m.biases[k] = res.b
		m.stats[k] = ClassStats{Class: class, Iterations: res.iters, Converged: res.converged}
	}
	return m, nil
}

// orderClasses returns the distinct labels, ordered by ordering when given.
func orderClasses(labels, ordering []string) ([]string, error) {
	present := lo.Uniq(labels)
	if len(ordering) == 0 {
		sort.Strings(present)
		return present, nil
	}
	for _, lbl := range present {
		if !lo.Contains(ordering, lbl) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, lbl)
		}
	}
	return lo.Filter(lo.Uniq(ordering), func(c string, _ int) bool {
		return lo.Contains(present, c)
	}), nil
}

// NewModel reconstructs a fitted Model from persisted state.
func NewModel(classes []string, weights [][]float64, biases []float64) (*Model, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: %d classes", ErrInvalidModel, len(classes))
	}
	if dup := lo.FindDuplicates(classes); len(dup) > 0 {
		return nil, fmt.Errorf("%w: duplicate classes %v", ErrInvalidModel, dup)
	}
	if len(weights) != len(classes) || len(biases) != len(classes) {
		return nil, fmt.Errorf("%w: %d classes, %d weight vectors, %d biases",
			ErrInvalidModel, len(classes), len(weights), len(biases))
	}
	dim := len(weights[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty weight vector", ErrInvalidModel)
	}

	m := &Model{
		classes: append([]string(nil), classes...),
		weights: make([][]float64, len(classes)),
		biases:  append([]float64(nil), biases...),
		dim:     dim,
	}
	for k, w := range weights {
		if len(w) != dim {
			return nil, fmt.Errorf("%w: class %q has %d weights, want %d", ErrInvalidModel, classes[k], len(w), dim)
		}
		for _, v := range w {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite weight for class %q", ErrInvalidModel, classes[k])
			}
		}
		m.weights[k] = append([]float64(nil), w...)
	}
	return m, nil
}

func (m *Model) fitted() bool {
	return m != nil && len(m.classes) >= 2
}

// Decision returns score_k = w_k·x + b_k for every class, in class order.
func (m *Model) Decision(x features.Vector) ([]float64, error) {
	if !m.fitted() {
		return nil, ErrNotFitted
	}
	if x.Dim != m.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimMismatch, x.Dim, m.dim)
	}
	scores := make([]float64, len(m.classes))
	for k := range m.classes {
		scores[k] = x.Dot(m.weights[k]) + m.biases[k]
	}
	return scores, nil
}

// Predict returns the class with the highest decision score. Ties go to the
// class that comes first in Classes().
func (m *Model) Predict(x features.Vector) (string, error) {
	scores, err := m.Decision(x)
	if err != nil {
		return "", err
	}
	return m.classes[Argmax(scores)], nil
}

// Argmax returns the lowest index holding the maximum value, or -1 for an empty slice.
func Argmax(scores []float64) int {
	if len(scores) == 0 {
		return -1
	}
	best := 0
	for k := 1; k < len(scores); k++ {
		if scores[k] > scores[best] {
			best = k
		}
	}
	return best
}

// Classes returns the class labels in tie-break order.
func (m *Model) Classes() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.classes...)
}

// Dim returns the feature dimension the model was fitted on.
func (m *Model) Dim() int {
	if m == nil {
		return 0
	}
	return m.dim
}

// Weights returns a copy of the weight vector of class k, or nil when the
// model is unfit or k is out of range.
func (m *Model) Weights(k int) []float64 {
	if m == nil || k < 0 || k >= len(m.weights) {
		return nil
	}
	return append([]float64(nil), m.weights[k]...)
}

// Bias returns the intercept of class k, or 0 when the model is unfit or k is
// out of range.
func (m *Model) Bias(k int) float64 {
	if m == nil || k < 0 || k >= len(m.biases) {
		return 0
	}
	return m.biases[k]
}

// Stats returns per-class solver statistics. Models rebuilt with NewModel have none.
func (m *Model) Stats() []ClassStats {
	if m == nil {
		return nil
	}
	return append([]ClassStats(nil), m.stats...)
}
