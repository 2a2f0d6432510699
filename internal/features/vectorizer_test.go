package features

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tickets = []string{
	"reset my password",
	"network access request",
	"broken laptop screen",
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		opts Options
		want []string
	}{
		{"Reset MY Password!", DefaultOptions(), []string{"reset", "my", "password"}},
		{"a b cd, e-mail", DefaultOptions(), []string{"cd", "mail"}},
		{"Ｗｉｆｉ down", DefaultOptions(), []string{"wifi", "down"}},
		{"please help me", Options{StopWords: []string{"Please", "me"}}, []string{"help"}},
		{"VPN down", Options{PreserveCase: true}, []string{"VPN", "down"}},
		{"x y z", Options{MinTokenLen: 1}, []string{"x", "y", "z"}},
		{"   ", DefaultOptions(), []string{}},
	}
	for _, c := range cases {
		got := Tokenize(c.in, c.opts)
		if len(got) == 0 && len(c.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("Tokenize(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestFit_VocabularyAndIDF(t *testing.T) {
	v, err := Fit([]string{"printer jammed", "printer offline", "vpn offline"}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"jammed", "offline", "printer", "vpn"}, v.Terms())
	assert.Equal(t, 4, v.Len())

	idf := v.IDF()
	// N=3: df(jammed)=1, df(offline)=2, df(printer)=2, df(vpn)=1.
	assert.InDelta(t, math.Log(4.0/2.0)+1, idf[0], 1e-12)
	assert.InDelta(t, math.Log(4.0/3.0)+1, idf[1], 1e-12)
	assert.InDelta(t, math.Log(4.0/3.0)+1, idf[2], 1e-12)
	assert.InDelta(t, math.Log(4.0/2.0)+1, idf[3], 1e-12)
	for _, w := range idf {
		assert.Greater(t, w, 0.0)
	}
}

func TestFit_Deterministic(t *testing.T) {
	a, err := Fit(tickets, DefaultOptions())
	require.NoError(t, err)
	b, err := Fit(tickets, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Vocabulary(), b.Vocabulary())
	assert.Equal(t, a.IDF(), b.IDF())
}

func TestFit_EmptyCorpus(t *testing.T) {
	_, err := Fit(nil, DefaultOptions())
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
	_, err = Fit([]string{"", "!!", "a b"}, DefaultOptions())
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus for tokenless corpus, got %v", err)
	}
}

func TestTransform_RoundTrip(t *testing.T) {
	v, err := Fit(tickets, DefaultOptions())
	require.NoError(t, err)

	out, err := v.Transform([]string{"reset my password"})
	require.NoError(t, err)
	require.Len(t, out, 1)

	vocab := v.Vocabulary()
	want := map[int]bool{vocab["reset"]: true, vocab["my"]: true, vocab["password"]: true}
	for i := 0; i < v.Len(); i++ {
		if want[i] {
			assert.NotZero(t, out[0].At(i), "term %q", v.Terms()[i])
		} else {
			assert.Zero(t, out[0].At(i), "term %q", v.Terms()[i])
		}
	}
	assert.Equal(t, v.Len(), out[0].Dim)
}

func TestTransform_Idempotent(t *testing.T) {
	v, err := Fit(tickets, DefaultOptions())
	require.NoError(t, err)

	first, err := v.Transform([]string{"my laptop screen is broken, reset it"})
	require.NoError(t, err)
	second, err := v.Transform([]string{"my laptop screen is broken, reset it"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Transform must not drift the fitted state.
	assert.Equal(t, []string{"access", "broken", "laptop", "my", "network", "password", "request", "reset", "screen"}, v.Terms())
}

func TestTransform_UnknownTokens(t *testing.T) {
	v, err := Fit(tickets, DefaultOptions())
	require.NoError(t, err)

	out, err := v.Transform([]string{"completely unrelated words", ""})
	require.NoError(t, err)
	for _, vec := range out {
		assert.True(t, vec.IsZero())
		assert.Zero(t, vec.Norm())
		assert.Equal(t, v.Len(), vec.Dim)
	}
}

func TestTransform_UnitNorm(t *testing.T) {
	v, err := Fit(tickets, DefaultOptions())
	require.NoError(t, err)

	docs := []string{
		"reset reset my password",
		"network",
		"broken laptop screen and network access",
		"my my my",
	}
	out, err := v.Transform(docs)
	require.NoError(t, err)
	for i, vec := range out {
		if vec.IsZero() {
			continue
		}
		if d := math.Abs(vec.Norm() - 1); d > 1e-9 {
			t.Fatalf("doc %d: norm off by %g", i, d)
		}
	}
}

func TestTransform_TermFrequencyWeighting(t *testing.T) {
	v, err := Fit(tickets, Options{Norm: NormNone})
	require.NoError(t, err)

	vec, err := v.TransformOne("reset reset password")
	require.NoError(t, err)
	idf := v.IDF()
	vocab := v.Vocabulary()
	assert.InDelta(t, 2*idf[vocab["reset"]], vec.At(vocab["reset"]), 1e-12)
	assert.InDelta(t, idf[vocab["password"]], vec.At(vocab["password"]), 1e-12)

	sub, err := Fit(tickets, Options{Norm: NormNone, Sublinear: true})
	require.NoError(t, err)
	vec, err = sub.TransformOne("reset reset password")
	require.NoError(t, err)
	assert.InDelta(t, (1+math.Log(2))*idf[vocab["reset"]], vec.At(vocab["reset"]), 1e-12)
}

func TestTransform_NotFitted(t *testing.T) {
	var v Vectorizer
	if _, err := v.Transform([]string{"reset my password"}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
	var nilV *Vectorizer
	if _, err := nilV.TransformOne("x"); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted on nil, got %v", err)
	}
}

func TestTransform_Concurrent(t *testing.T) {
	v, err := Fit(tickets, DefaultOptions())
	require.NoError(t, err)
	want, err := v.TransformOne("network access for my laptop")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := v.TransformOne("network access for my laptop")
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- errors.New("concurrent transform diverged")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestRestore(t *testing.T) {
	v, err := Fit(tickets, DefaultOptions())
	require.NoError(t, err)

	r, err := Restore(v.Terms(), v.IDF(), v.Options())
	require.NoError(t, err)
	a, _ := v.TransformOne("reset my network password")
	b, _ := r.TransformOne("reset my network password")
	assert.Equal(t, a, b)

	_, err = Restore([]string{"a", "a"}, []float64{1, 1}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidVocabulary)
	_, err = Restore([]string{"a"}, []float64{1, 2}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidVocabulary)
	_, err = Restore([]string{"a"}, []float64{0}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidVocabulary)
	_, err = Restore(nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidVocabulary)
}
