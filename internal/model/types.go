package model

import (
	"github.com/kamusis/triage/internal/features"
	"github.com/kamusis/triage/internal/svm"
)

// FormatVersion is the artifact layout written by Write.
const FormatVersion = 1

// File names inside a model directory.
const (
	ManifestFile   = "model_manifest.json"
	VocabularyFile = "vocabulary.jsonl"
	WeightsFile    = "weights.f64"
)

// Manifest describes a persisted model and how to interpret its artifacts.
type Manifest struct {
	FormatVersion  int              `json:"format_version"`
	ModelID        string           `json:"model_id"`
	CreatedAt      string           `json:"created_at"`
	Classes        []string         `json:"classes"`
	Dim            int              `json:"dim"`
	Features       features.Options `json:"features"`
	Classifier     svm.Params       `json:"classifier"`
	CorpusHash     string           `json:"corpus_hash,omitempty"`
	TrainSize      int              `json:"train_size,omitempty"`
	TestSize       int              `json:"test_size,omitempty"`
	Accuracy       float64          `json:"accuracy,omitempty"`
	VocabularyFile string           `json:"vocabulary_file"`
	WeightsFile    string           `json:"weights_file"`
}

// Metadata is the training provenance recorded next to a model.
type Metadata struct {
	Classifier svm.Params
	CorpusHash string
	TrainSize  int
	TestSize   int
	Accuracy   float64
}

// VocabEntry is one row of vocabulary.jsonl.
type VocabEntry struct {
	Index int     `json:"index"`
	Term  string  `json:"term"`
	IDF   float64 `json:"idf"`
}
