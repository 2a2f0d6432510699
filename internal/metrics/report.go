// Package metrics scores predicted categories against true categories.
package metrics

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

var (
	// ErrLengthMismatch indicates y_true and y_pred differ in length.
	ErrLengthMismatch = errors.New("true/predicted length mismatch")

	// ErrNoSamples indicates there is nothing to score.
	ErrNoSamples = errors.New("no samples to score")
)

// ClassMetrics holds the scores of one category.
type ClassMetrics struct {
	Class     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Average holds an aggregate over all categories.
type Average struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassificationReport is a per-category precision/recall/F1 summary.
type ClassificationReport struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    Average
	WeightedAvg Average
	Total       int
}

// Report computes per-category precision, recall, F1 and support.
//
// Only labels seen in yTrue or yPred are reported, so a category that is
// neither present nor predicted does not drag the macro average down. They
// are ordered as in classes, followed by any unlisted label in lexicographic
// order. A ratio with a zero denominator is reported as 0.
func Report(yTrue, yPred, classes []string) (*ClassificationReport, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%w: %d true, %d predicted", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, ErrNoSamples
	}
	labels := labelOrder(yTrue, yPred, classes)

	tp := make(map[string]int, len(labels))
	predicted := lo.CountValues(yPred)
	support := lo.CountValues(yTrue)
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			tp[yTrue[i]]++
			correct++
		}
	}

	n := len(yTrue)
	r := &ClassificationReport{
		Classes:  make([]ClassMetrics, 0, len(labels)),
		Accuracy: ratio(correct, n),
		Total:    n,
	}
	for _, c := range labels {
		p := ratio(tp[c], predicted[c])
		rc := ratio(tp[c], support[c])
		r.Classes = append(r.Classes, ClassMetrics{
			Class:     c,
			Precision: p,
			Recall:    rc,
			F1:        f1(p, rc),
			Support:   support[c],
		})
	}

	k := float64(len(r.Classes))
	for _, cm := range r.Classes {
		r.MacroAvg.Precision += cm.Precision / k
		r.MacroAvg.Recall += cm.Recall / k
		r.MacroAvg.F1 += cm.F1 / k

		w := float64(cm.Support) / float64(n)
		r.WeightedAvg.Precision += cm.Precision * w
		r.WeightedAvg.Recall += cm.Recall * w
		r.WeightedAvg.F1 += cm.F1 * w
	}
	r.MacroAvg.Support = n
	r.WeightedAvg.Support = n
	return r, nil
}

// ConfusionMatrix returns m where m[i][j] counts samples of category i
// predicted as category j, in the same category order as Report.
func ConfusionMatrix(yTrue, yPred, classes []string) ([]string, [][]int, error) {
	if len(yTrue) != len(yPred) {
		return nil, nil, fmt.Errorf("%w: %d true, %d predicted", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	labels := labelOrder(yTrue, yPred, classes)
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	m := make([][]int, len(labels))
	for i := range m {
		m[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		m[pos[yTrue[i]]][pos[yPred[i]]]++
	}
	return labels, m, nil
}

// labelOrder returns the labels seen in yTrue or yPred, ordered as in classes
// with unlisted labels appended in lexicographic order.
func labelOrder(yTrue, yPred, classes []string) []string {
	seen := lo.Uniq(append(append([]string{}, yTrue...), yPred...))
	out := lo.Filter(lo.Uniq(classes), func(c string, _ int) bool {
		return lo.Contains(seen, c)
	})
	extra := lo.Without(seen, out...)
	sort.Strings(extra)
	return append(out, extra...)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Render writes the report as a table.
func (r *ClassificationReport) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Precision", "Recall", "F1-Score", "Support"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, c := range r.Classes {
		table.Append([]string{c.Class, fmtScore(c.Precision), fmtScore(c.Recall), fmtScore(c.F1), strconv.Itoa(c.Support)})
	}
	table.Append([]string{"accuracy", "", "", fmtScore(r.Accuracy), strconv.Itoa(r.Total)})
	table.Append([]string{"macro avg", fmtScore(r.MacroAvg.Precision), fmtScore(r.MacroAvg.Recall), fmtScore(r.MacroAvg.F1), strconv.Itoa(r.MacroAvg.Support)})
	table.Append([]string{"weighted avg", fmtScore(r.WeightedAvg.Precision), fmtScore(r.WeightedAvg.Recall), fmtScore(r.WeightedAvg.F1), strconv.Itoa(r.WeightedAvg.Support)})
	table.Render()
}

func fmtScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
