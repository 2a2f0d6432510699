package features

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Norm selects how Transform scales each output vector.
type Norm string

const (
	NormL2   Norm = "l2"
	NormNone Norm = "none"
)

const defaultMinTokenLen = 2

// Options controls tokenization and weighting.
//
// The zero value lowercases, keeps tokens of at least two runes, drops no stop
// words and L2-normalizes every vector.
type Options struct {
	PreserveCase bool     `json:"preserve_case"`
	MinTokenLen  int      `json:"min_token_len"`
	StopWords    []string `json:"stop_words,omitempty"`
	Sublinear    bool     `json:"sublinear_tf"`
	Norm         Norm     `json:"norm"`
}

// DefaultOptions returns the tokenizer policy used when nothing is configured.
func DefaultOptions() Options {
	return Options{MinTokenLen: defaultMinTokenLen, Norm: NormL2}
}

func (o Options) withDefaults() Options {
	if o.MinTokenLen <= 0 {
		o.MinTokenLen = defaultMinTokenLen
	}
	if o.Norm == "" {
		o.Norm = NormL2
	}
	return o
}

// Tokenize splits text into normalized tokens following opts.
func Tokenize(text string, opts Options) []string {
	opts = opts.withDefaults()
	return tokenize(text, opts, stopSet(opts))
}

func tokenize(text string, opts Options, stop map[string]struct{}) []string {
	s := norm.NFKC.String(text)
	if !opts.PreserveCase {
		// Casers are stateful; one per call keeps Tokenize safe for concurrent use.
		s = cases.Lower(language.Und).String(s)
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := parts[:0]
	for _, p := range parts {
		if utf8.RuneCountInString(p) < opts.MinTokenLen {
			continue
		}
		if _, ok := stop[p]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

func stopSet(opts Options) map[string]struct{} {
	if len(opts.StopWords) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(opts.StopWords))
	for _, w := range opts.StopWords {
		w = strings.TrimSpace(w)
		if !opts.PreserveCase {
			w = cases.Lower(language.Und).String(w)
		}
		if w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}
