package model

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kamusis/triage/internal/pipeline"
)

// Write writes the artifacts of p to dir and returns the manifest it wrote.
//
// It is the caller's responsibility to write into a staging directory and
// Install it.
func Write(dir string, p *pipeline.Pipeline, meta Metadata) (*Manifest, error) {
	if p == nil {
		return nil, ErrNoPipeline
	}
	vec, m := p.Vectorizer(), p.Model()

	manifest := Manifest{
		FormatVersion:  FormatVersion,
		ModelID:        uuid.NewString(),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		Classes:        m.Classes(),
		Dim:            m.Dim(),
		Features:       vec.Options(),
		Classifier:     meta.Classifier,
		CorpusHash:     meta.CorpusHash,
		TrainSize:      meta.TrainSize,
		TestSize:       meta.TestSize,
		Accuracy:       meta.Accuracy,
		VocabularyFile: VocabularyFile,
		WeightsFile:    WeightsFile,
	}
	manifest.Classifier.Classes = manifest.Classes

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create model dir %s: %w", dir, err)
	}

	// manifest
	mb, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), mb, 0o644); err != nil {
		return nil, fmt.Errorf("cannot write manifest: %w", err)
	}

	// vocabulary jsonl
	terms, idf := vec.Terms(), vec.IDF()
	vf, err := os.Create(filepath.Join(dir, manifest.VocabularyFile))
	if err != nil {
		return nil, fmt.Errorf("cannot create vocabulary file: %w", err)
	}
	bw := bufio.NewWriter(vf)
	enc := json.NewEncoder(bw)
	for i, t := range terms {
		if err := enc.Encode(VocabEntry{Index: i, Term: t, IDF: idf[i]}); err != nil {
			_ = vf.Close()
			return nil, fmt.Errorf("cannot write vocabulary: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = vf.Close()
		return nil, err
	}
	if err := vf.Close(); err != nil {
		return nil, err
	}

	// weights: per class, dim weights followed by the bias
	blob := make([]float64, 0, len(manifest.Classes)*(manifest.Dim+1))
	for k := range manifest.Classes {
		blob = append(blob, m.Weights(k)...)
		blob = append(blob, m.Bias(k))
	}
	wf, err := os.Create(filepath.Join(dir, manifest.WeightsFile))
	if err != nil {
		return nil, fmt.Errorf("cannot create weights file: %w", err)
	}
	bw = bufio.NewWriter(wf)
	if err := binary.Write(bw, binary.LittleEndian, blob); err != nil {
		_ = wf.Close()
		return nil, fmt.Errorf("cannot write weights: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = wf.Close()
		return nil, err
	}
	if err := wf.Close(); err != nil {
		return nil, err
	}

	return &manifest, nil
}
