package model

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kamusis/triage/internal/features"
	"github.com/kamusis/triage/internal/pipeline"
	"github.com/kamusis/triage/internal/svm"
)

// ReadManifest reads and validates the manifest in dir.
func ReadManifest(dir string) (*Manifest, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	b, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest %s: %w", manifestPath, err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON %s: %w", manifestPath, err)
	}
	if m.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, m.FormatVersion)
	}
	if m.Dim <= 0 {
		return nil, fmt.Errorf("%w: invalid dim in manifest: %d", ErrCorruptModel, m.Dim)
	}
	if len(m.Classes) < 2 {
		return nil, fmt.Errorf("%w: manifest lists %d classes", ErrCorruptModel, len(m.Classes))
	}
	if m.VocabularyFile == "" {
		m.VocabularyFile = VocabularyFile
	}
	if m.WeightsFile == "" {
		m.WeightsFile = WeightsFile
	}
	return &m, nil
}

// Load reads a model directory and returns the ready-to-use pipeline.
func Load(dir string) (*pipeline.Pipeline, *Manifest, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, nil, err
	}

	terms, idf, err := loadVocabulary(filepath.Join(dir, m.VocabularyFile), m.Dim)
	if err != nil {
		return nil, nil, err
	}
	vec, err := features.Restore(terms, idf, m.Features)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorruptModel, err)
	}

	weights, biases, err := loadWeights(filepath.Join(dir, m.WeightsFile), len(m.Classes), m.Dim)
	if err != nil {
		return nil, nil, err
	}
	clf, err := svm.NewModel(m.Classes, weights, biases)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorruptModel, err)
	}

	p, err := pipeline.New(vec, clf)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorruptModel, err)
	}
	return p, m, nil
}

func loadVocabulary(path string, dim int) ([]string, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open vocabulary file %s: %w", path, err)
	}
	defer f.Close()

	terms := make([]string, dim)
	idf := make([]float64, dim)
	seen := make([]bool, dim)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e VocabEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, nil, fmt.Errorf("invalid vocabulary JSONL %s: %w", path, err)
		}
		if e.Index < 0 || e.Index >= dim || seen[e.Index] {
			return nil, nil, fmt.Errorf("%w: vocabulary index %d out of range or repeated (dim=%d)", ErrCorruptModel, e.Index, dim)
		}
		seen[e.Index] = true
		terms[e.Index] = e.Term
		idf[e.Index] = e.IDF
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("cannot read vocabulary file %s: %w", path, err)
	}
	if n != dim {
		return nil, nil, fmt.Errorf("%w: vocabulary has %d entries, manifest dim is %d", ErrCorruptModel, n, dim)
	}
	return terms, idf, nil
}

func loadWeights(path string, nClasses, dim int) ([][]float64, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open weights file %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot stat weights file %s: %w", path, err)
	}
	row := dim + 1
	expected := int64(nClasses * row * 8)
	if st.Size() != expected {
		return nil, nil, fmt.Errorf("%w: weights file size mismatch: got %d want %d (classes=%d dim=%d)",
			ErrCorruptModel, st.Size(), expected, nClasses, dim)
	}

	blob := make([]float64, nClasses*row)
	if err := binary.Read(bufio.NewReader(io.LimitReader(f, expected)), binary.LittleEndian, blob); err != nil {
		return nil, nil, fmt.Errorf("cannot read weights from %s: %w", path, err)
	}

	weights := make([][]float64, nClasses)
	biases := make([]float64, nClasses)
	for k := 0; k < nClasses; k++ {
		weights[k] = blob[k*row : k*row+dim]
		biases[k] = blob[k*row+dim]
	}
	return weights, biases, nil
}
