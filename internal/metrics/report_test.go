package metrics

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	yTrue := []string{"Access", "Access", "Hardware", "Hardware", "Storage", "Purchase"}
	yPred := []string{"Access", "Hardware", "Hardware", "Hardware", "Access", "Access"}

	r, err := Report(yTrue, yPred, []string{"Hardware", "Access", "Storage", "Purchase"})
	require.NoError(t, err)

	byClass := map[string]ClassMetrics{}
	for _, c := range r.Classes {
		byClass[c.Class] = c
	}
	assert.Equal(t, []string{"Hardware", "Access", "Storage", "Purchase"},
		[]string{r.Classes[0].Class, r.Classes[1].Class, r.Classes[2].Class, r.Classes[3].Class})

	assert.InDelta(t, 2.0/3.0, byClass["Hardware"].Precision, 1e-12)
	assert.InDelta(t, 1.0, byClass["Hardware"].Recall, 1e-12)
	assert.InDelta(t, 0.8, byClass["Hardware"].F1, 1e-12)
	assert.InDelta(t, 1.0/3.0, byClass["Access"].Precision, 1e-12)
	assert.InDelta(t, 0.5, byClass["Access"].Recall, 1e-12)

	// never predicted: precision must be 0, not NaN
	for _, c := range []string{"Storage", "Purchase"} {
		m := byClass[c]
		assert.Zero(t, m.Precision, c)
		assert.Zero(t, m.Recall, c)
		assert.Zero(t, m.F1, c)
		assert.Equal(t, 1, m.Support, c)
	}

	assert.InDelta(t, 0.5, r.Accuracy, 1e-12)
	assert.Equal(t, 6, r.Total)
	for _, v := range []float64{r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1,
		r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1} {
		assert.False(t, math.IsNaN(v))
	}
	assert.InDelta(t, (2.0/3.0+1.0/3.0)/4, r.MacroAvg.Precision, 1e-12)
}

func TestReport_ExtraPredictedLabel(t *testing.T) {
	r, err := Report([]string{"a", "b"}, []string{"a", "z"}, nil)
	require.NoError(t, err)
	require.Len(t, r.Classes, 3)
	assert.Equal(t, "z", r.Classes[2].Class)
	assert.Zero(t, r.Classes[2].Support)
	assert.Zero(t, r.Classes[2].Recall)
}

func TestReport_SkipsUnusedClasses(t *testing.T) {
	r, err := Report([]string{"a", "a", "b"}, []string{"a", "a", "b"}, []string{"c", "b", "a"})
	require.NoError(t, err)
	require.Len(t, r.Classes, 2)
	assert.Equal(t, "b", r.Classes[0].Class)
	assert.Equal(t, "a", r.Classes[1].Class)
	assert.InDelta(t, 1.0, r.MacroAvg.Precision, 1e-12)
	assert.InDelta(t, 1.0, r.MacroAvg.Recall, 1e-12)
	assert.InDelta(t, 1.0, r.MacroAvg.F1, 1e-12)

	labels, m, err := ConfusionMatrix([]string{"a", "b"}, []string{"a", "b"}, []string{"c", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, labels)
	assert.Equal(t, [][]int{{1, 0}, {0, 1}}, m)
}

func TestReport_Errors(t *testing.T) {
	_, err := Report([]string{"a"}, nil, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = Report(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestConfusionMatrix(t *testing.T) {
	labels, m, err := ConfusionMatrix([]string{"a", "a", "b"}, []string{"a", "b", "b"}, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, labels)
	assert.Equal(t, [][]int{{1, 0}, {1, 1}}, m)
}

func TestRender(t *testing.T) {
	r, err := Report([]string{"Access", "Hardware"}, []string{"Access", "Access"}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	r.Render(&buf)
	out := buf.String()
	for _, want := range []string{"Access", "Hardware", "accuracy", "macro avg", "weighted avg", "0.50"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered report missing %q:\n%s", want, out)
		}
	}
}
