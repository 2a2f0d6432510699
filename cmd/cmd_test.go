package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamusis/triage/internal/config"
	"github.com/kamusis/triage/internal/dataset"
	"github.com/kamusis/triage/internal/features"
	"github.com/kamusis/triage/internal/model"
	"github.com/kamusis/triage/internal/svm"
)

const testCorpus = `Document,Topic_group
laptop screen cracked,Hardware
keyboard keys broken,Hardware
monitor flickering badly,Hardware
laptop battery broken,Hardware
docking station broken,Hardware
reset account password,Access
password expired login,Access
account locked password,Access
grant portal access,Access
login access denied,Access
disk quota exceeded,Storage
shared drive full,Storage
mailbox storage quota,Storage
drive space exceeded,Storage
backup drive full,Storage
`

func runCLI(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("triage %s: %v", strings.Join(args, " "), err)
	}
}

func TestFitOptions_MapsConfig(t *testing.T) {
	t.Setenv("TRIAGE_HOME", t.TempDir())
	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Classifier.Loss = "HINGE"
	cfg.Features.StopWords = []string{"the", "and"}
	cfg.Seed = 7

	opts := fitOptions(cfg)
	if opts.Classifier.Loss != svm.LossHinge {
		t.Fatalf("loss = %q, want %q", opts.Classifier.Loss, svm.LossHinge)
	}
	if opts.Classifier.Seed != 7 || len(opts.Classifier.Classes) != len(config.Categories) {
		t.Fatalf("unexpected classifier params: %+v", opts.Classifier)
	}
	if opts.Features.Norm != features.NormL2 || opts.Features.MinTokenLen != 2 {
		t.Fatalf("unexpected feature options: %+v", opts.Features)
	}
	if opts.Features.StopWords[0] != "and" || cfg.Features.StopWords[0] != "the" {
		t.Fatalf("stop words should be sorted on a copy: %v / %v", opts.Features.StopWords, cfg.Features.StopWords)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()
	if !newLogger("debug").Enabled(ctx, slog.LevelDebug) {
		t.Fatalf("debug logger should enable debug")
	}
	if newLogger("warn").Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("warn logger should not enable info")
	}
	if !newLogger("bogus").Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("unknown level should fall back to info")
	}
}

func TestTrainThenPredict(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TRIAGE_HOME", home)
	csvPath := filepath.Join(t.TempDir(), "tickets.csv")
	if err := os.WriteFile(csvPath, []byte(testCorpus), 0o644); err != nil {
		t.Fatal(err)
	}

	runCLI(t, "init")
	runCLI(t, "train", csvPath, "--samples=false")

	p, m, err := model.Load(filepath.Join(home, "model"))
	if err != nil {
		t.Fatalf("installed model: %v", err)
	}
	want := []string{"Hardware", "Access", "Storage"}
	if strings.Join(m.Classes, ",") != strings.Join(want, ",") {
		t.Fatalf("classes = %v, want %v", m.Classes, want)
	}
	if m.TrainSize+m.TestSize != 15 || m.CorpusHash == "" {
		t.Fatalf("unexpected provenance: %+v", m)
	}
	corpus, err := dataset.ReadCSV(strings.NewReader(testCorpus), dataset.DefaultTextColumn, dataset.DefaultLabelColumn)
	if err != nil {
		t.Fatal(err)
	}
	full, err := features.Fit(corpus.Documents, m.Features)
	if err != nil {
		t.Fatal(err)
	}
	if p.Vectorizer().Len() != full.Len() || m.Dim != full.Len() {
		t.Fatalf("installed vocabulary has %d terms, full corpus has %d", p.Vectorizer().Len(), full.Len())
	}

	pred, err := p.Classify("my laptop screen is broken")
	if err != nil {
		t.Fatal(err)
	}
	if pred.Label != "Hardware" {
		t.Fatalf("predicted %q, want Hardware", pred.Label)
	}

	runCLI(t, "predict", "--chosen", "Access", "password", "reset")
	runCLI(t, "evaluate", csvPath, "--confusion")
	runCLI(t, "inspect", "--top", "3")

	if got := installedModelSummary(); !strings.HasPrefix(got, m.ModelID) {
		t.Fatalf("installed model summary = %q, want prefix %q", got, m.ModelID)
	}
}

func TestInstalledModelSummary_NoModel(t *testing.T) {
	t.Setenv("TRIAGE_HOME", t.TempDir())
	if got := installedModelSummary(); got != "n/a" {
		t.Fatalf("summary without a model = %q, want n/a", got)
	}
}
