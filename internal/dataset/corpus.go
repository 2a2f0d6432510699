// Package dataset loads labeled ticket corpora and splits them for training
// and evaluation.
package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Default column names of the ticket export.
const (
	DefaultTextColumn  = "Document"
	DefaultLabelColumn = "Topic_group"
)

// Corpus is a sequence of documents with one label each.
type Corpus struct {
	Documents []string
	Labels    []string
	// Skipped counts rows dropped because their document or label was empty.
	Skipped int
}

// Len returns the number of labeled documents.
func (c *Corpus) Len() int {
	return len(c.Documents)
}

// Classes returns the distinct labels sorted lexicographically.
func (c *Corpus) Classes() []string {
	out := lo.Uniq(c.Labels)
	sort.Strings(out)
	return out
}

// Counts returns the number of documents per label.
func (c *Corpus) Counts() map[string]int {
	return lo.CountValues(c.Labels)
}

// Hash returns a sha256 (hex) over every document and label, in order.
func (c *Corpus) Hash() string {
	h := sha256.New()
	for i := range c.Documents {
		_, _ = io.WriteString(h, c.Labels[i])
		_, _ = h.Write([]byte{0})
		_, _ = io.WriteString(h, c.Documents[i])
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LoadCSV reads a labeled corpus from the CSV file at path.
func LoadCSV(path, textColumn, labelColumn string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open corpus %s: %w", path, err)
	}
	defer f.Close()

	c, err := ReadCSV(f, textColumn, labelColumn)
	if err != nil {
		return nil, fmt.Errorf("cannot read corpus %s: %w", path, err)
	}
	return c, nil
}

// ReadCSV reads a labeled corpus from r. The first record is the header; the
// text and label columns are located by name.
func ReadCSV(r io.Reader, textColumn, labelColumn string) (*Corpus, error) {
	if textColumn == "" {
		textColumn = DefaultTextColumn
	}
	if labelColumn == "" {
		labelColumn = DefaultLabelColumn
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	header = lo.Map(header, trimCell)
	textIdx := lo.IndexOf(header, textColumn)
	if textIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, textColumn)
	}
	labelIdx := lo.IndexOf(header, labelColumn)
	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, labelColumn)
	}
	need := max(textIdx, labelIdx) + 1

	c := &Corpus{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < need {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, need, len(rec))
		}
		doc := strings.TrimSpace(rec[textIdx])
		label := strings.TrimSpace(rec[labelIdx])
		if doc == "" || label == "" {
			c.Skipped++
			continue
		}
		c.Documents = append(c.Documents, doc)
		c.Labels = append(c.Labels, label)
	}
	return c, nil
}

func trimCell(s string, _ int) string {
	return strings.TrimSpace(s)
}

// TrainTestSplit shuffles c with seed and holds out ceil(testSize*N) documents
// for testing.
func TrainTestSplit(c *Corpus, testSize float64, seed uint64) (train, test *Corpus, err error) {
	if !(testSize > 0 && testSize < 1) {
		return nil, nil, fmt.Errorf("%w: test size %v not in (0, 1)", ErrInvalidSplit, testSize)
	}
	n := c.Len()
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest == 0 || nTest >= n {
		return nil, nil, fmt.Errorf("%w: %d documents, %d held out", ErrInvalidSplit, n, nTest)
	}

	perm := rand.New(rand.NewPCG(seed, 0)).Perm(n)
	test = subset(c, perm[:nTest])
	train = subset(c, perm[nTest:])
	return train, test, nil
}

func subset(c *Corpus, idx []int) *Corpus {
	out := &Corpus{
		Documents: make([]string, len(idx)),
		Labels:    make([]string, len(idx)),
	}
	for i, j := range idx {
		out.Documents[i] = c.Documents[j]
		out.Labels[i] = c.Labels[j]
	}
	return out
}
