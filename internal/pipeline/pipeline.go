// Package pipeline couples a fitted feature extractor with a fitted classifier
// into one immutable value that is passed explicitly to every caller.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kamusis/triage/internal/features"
	"github.com/kamusis/triage/internal/svm"
)

// ErrIncompatible indicates the vectorizer and model disagree on the feature dimension.
var ErrIncompatible = errors.New("vectorizer and classifier are incompatible")

// Pipeline transforms ticket text and predicts its category. It is immutable
// and safe for concurrent use.
type Pipeline struct {
	vectorizer *features.Vectorizer
	model      *svm.Model
}

// Score is the decision score of one category.
type Score struct {
	Category string  `json:"category"`
	Value    float64 `json:"score"`
}

// Prediction is the outcome of classifying one text.
type Prediction struct {
	Label  string  `json:"label"`
	Scores []Score `json:"scores"`
}

// Matches reports whether the predicted label equals the category chosen by a user.
func (p Prediction) Matches(chosen string) bool {
	return p.Label == chosen
}

// FitOptions configures Fit.
type FitOptions struct {
	Features   features.Options
	Classifier svm.Params
}

// New wraps an already fitted vectorizer and model.
func New(vec *features.Vectorizer, model *svm.Model) (*Pipeline, error) {
	if vec == nil || vec.Len() == 0 {
		return nil, features.ErrNotFitted
	}
	if model == nil || model.Dim() == 0 {
		return nil, svm.ErrNotFitted
	}
	if vec.Len() != model.Dim() {
		return nil, fmt.Errorf("%w: vocabulary has %d terms, classifier expects %d", ErrIncompatible, vec.Len(), model.Dim())
	}
	return &Pipeline{vectorizer: vec, model: model}, nil
}

// Fit fits the extractor on documents, transforms them and trains the
// classifier on the resulting vectors.
func Fit(ctx context.Context, documents, labels []string, opts FitOptions, logger *slog.Logger) (*Pipeline, error) {
	if len(documents) != len(labels) {
		return nil, fmt.Errorf("%w: %d documents, %d labels", svm.ErrLabelMismatch, len(documents), len(labels))
	}
	vec, err := features.Fit(documents, opts.Features)
	if err != nil {
		return nil, err
	}
	return FitClassifier(ctx, vec, documents, labels, opts.Classifier, logger)
}

// FitClassifier trains the classifier on documents transformed by an already
// fitted vectorizer. Use it when the vocabulary is fitted on a larger corpus
// than the labeled training subset, e.g. before a train/test split.
func FitClassifier(ctx context.Context, vec *features.Vectorizer, documents, labels []string, params svm.Params, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if vec == nil || vec.Len() == 0 {
		return nil, features.ErrNotFitted
	}
	if len(documents) != len(labels) {
		return nil, fmt.Errorf("%w: %d documents, %d labels", svm.ErrLabelMismatch, len(documents), len(labels))
	}
	logger.Info("vocabulary fitted", "terms", vec.Len())

	xs, err := vec.Transform(documents)
	if err != nil {
		return nil, err
	}

	model, err := svm.Train(ctx, xs, labels, vec.Len(), params, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("classifier trained", "documents", len(documents), "classes", len(model.Classes()))

	return New(vec, model)
}

// Vectorizer returns the fitted feature extractor.
func (p *Pipeline) Vectorizer() *features.Vectorizer {
	return p.vectorizer
}

// Model returns the fitted classifier.
func (p *Pipeline) Model() *svm.Model {
	return p.model
}

// Classes returns the category labels in tie-break order.
func (p *Pipeline) Classes() []string {
	return p.model.Classes()
}

// Classify predicts the category of text.
func (p *Pipeline) Classify(text string) (Prediction, error) {
	if p == nil {
		return Prediction{}, svm.ErrNotFitted
	}
	x, err := p.vectorizer.TransformOne(text)
	if err != nil {
		return Prediction{}, err
	}
	scores, err := p.model.Decision(x)
	if err != nil {
		return Prediction{}, err
	}

	classes := p.model.Classes()
	out := Prediction{
		Label:  classes[svm.Argmax(scores)],
		Scores: make([]Score, len(scores)),
	}
	for k, s := range scores {
		out.Scores[k] = Score{Category: classes[k], Value: s}
	}
	return out, nil
}

// ClassifyBatch predicts the category of every text, in order.
func (p *Pipeline) ClassifyBatch(texts []string) ([]Prediction, error) {
	out := make([]Prediction, len(texts))
	for i, t := range texts {
		pred, err := p.Classify(t)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = pred
	}
	return out, nil
}

// Labels returns only the predicted labels of texts.
func (p *Pipeline) Labels(texts []string) ([]string, error) {
	preds, err := p.ClassifyBatch(texts)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(preds))
	for i, pr := range preds {
		out[i] = pr.Label
	}
	return out, nil
}
