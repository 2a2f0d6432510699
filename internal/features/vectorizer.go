// Package features turns free-text ticket descriptions into TF-IDF weighted
// sparse vectors over a vocabulary fitted once on a training corpus.
package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// Vocabulary maps a normalized token to its feature index.
type Vocabulary map[string]int

// Vectorizer holds a fitted vocabulary and its IDF weights.
//
// The zero value is unfit; Transform on it returns ErrNotFitted. A fitted
// Vectorizer is never mutated and is safe for concurrent use.
type Vectorizer struct {
	vocab Vocabulary
	terms []string
	idf   []float64
	opts  Options
	stop  map[string]struct{}
}

// Fit builds the vocabulary and smoothed IDF weights from documents.
//
// Terms are indexed in lexicographic order so repeated fits on the same input
// produce identical state. IDF for term i is ln((1+N)/(1+df_i)) + 1.
func Fit(documents []string, opts Options) (*Vectorizer, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: no documents", ErrEmptyCorpus)
	}
	opts = opts.withDefaults()
	stop := stopSet(opts)

	df := make(map[string]int)
	for _, doc := range documents {
		for _, tok := range lo.Uniq(tokenize(doc, opts, stop)) {
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, fmt.Errorf("%w: %d documents produced no tokens", ErrEmptyCorpus, len(documents))
	}

	terms := lo.Keys(df)
	sort.Strings(terms)

	n := float64(len(documents))
	vocab := make(Vocabulary, len(terms))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		vocab[t] = i
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	return &Vectorizer{vocab: vocab, terms: terms, idf: idf, opts: opts, stop: stop}, nil
}

// Restore rebuilds a fitted Vectorizer from persisted state. terms[i] is the
// token at index i and idf[i] its weight.
func Restore(terms []string, idf []float64, opts Options) (*Vectorizer, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: no terms", ErrInvalidVocabulary)
	}
	if len(terms) != len(idf) {
		return nil, fmt.Errorf("%w: %d terms but %d idf weights", ErrInvalidVocabulary, len(terms), len(idf))
	}
	opts = opts.withDefaults()

	vocab := make(Vocabulary, len(terms))
	for i, t := range terms {
		if t == "" {
			return nil, fmt.Errorf("%w: empty term at index %d", ErrInvalidVocabulary, i)
		}
		if prev, ok := vocab[t]; ok {
			return nil, fmt.Errorf("%w: term %q at index %d and %d", ErrInvalidVocabulary, t, prev, i)
		}
		if w := idf[i]; !(w > 0) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: idf for %q is %v", ErrInvalidVocabulary, t, w)
		}
		vocab[t] = i
	}

	return &Vectorizer{
		vocab: vocab,
		terms: append([]string(nil), terms...),
		idf:   append([]float64(nil), idf...),
		opts:  opts,
		stop:  stopSet(opts),
	}, nil
}

func (v *Vectorizer) fitted() bool {
	return v != nil && len(v.terms) > 0
}

// Transform converts documents to feature vectors, one per document, in order.
// Tokens outside the vocabulary are ignored.
func (v *Vectorizer) Transform(documents []string) ([]Vector, error) {
	if !v.fitted() {
		return nil, ErrNotFitted
	}
	out := make([]Vector, len(documents))
	for i, doc := range documents {
		out[i] = v.transform(doc)
	}
	return out, nil
}

// TransformOne converts a single document.
func (v *Vectorizer) TransformOne(document string) (Vector, error) {
	if !v.fitted() {
		return Vector{}, ErrNotFitted
	}
	return v.transform(document), nil
}

func (v *Vectorizer) transform(doc string) Vector {
	counts := make(map[int]float64)
	for _, tok := range tokenize(doc, v.opts, v.stop) {
		if idx, ok := v.vocab[tok]; ok {
			counts[idx]++
		}
	}

	indices := lo.Keys(counts)
	sort.Ints(indices)

	vec := Vector{
		Indices: indices,
		Values:  make([]float64, len(indices)),
		Dim:     len(v.terms),
	}
	for i, idx := range indices {
		tf := counts[idx]
		if v.opts.Sublinear {
			tf = 1 + math.Log(tf)
		}
		vec.Values[i] = tf * v.idf[idx]
	}
	if v.opts.Norm == NormL2 {
		return vec.Normalize()
	}
	return vec
}

// Len returns the vocabulary size, which is the dimension of every output vector.
func (v *Vectorizer) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Terms returns the vocabulary tokens ordered by index.
func (v *Vectorizer) Terms() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.terms...)
}

// IDF returns a copy of the IDF weights ordered by index.
func (v *Vectorizer) IDF() []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v.idf...)
}

// Vocabulary returns a copy of the token to index mapping.
func (v *Vectorizer) Vocabulary() Vocabulary {
	if v == nil {
		return nil
	}
	out := make(Vocabulary, len(v.vocab))
	for t, i := range v.vocab {
		out[t] = i
	}
	return out
}

// Options returns the tokenizer policy the Vectorizer was fitted with.
func (v *Vectorizer) Options() Options {
	if v == nil {
		return DefaultOptions()
	}
	o := v.opts
	o.StopWords = append([]string(nil), v.opts.StopWords...)
	return o
}
