package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamusis/triage/internal/config"
	"github.com/kamusis/triage/internal/dataset"
	"github.com/kamusis/triage/internal/features"
	"github.com/kamusis/triage/internal/metrics"
	"github.com/kamusis/triage/internal/model"
	"github.com/kamusis/triage/internal/pipeline"
	"github.com/kamusis/triage/internal/svm"
	"github.com/spf13/cobra"
)

// sampleTickets are classified after every training run as a smoke test.
var sampleTickets = []string{
	"I cannot connect to the network, please help.",
	"Please reset my account password.",
	"The device is not working as expected.",
	"How can I access the company portal from home?",
}

var (
	flagTrainTestSize float64
	flagTrainOut      string
	flagTrainSamples  bool
)

var trainCmd = &cobra.Command{
	Use:   "train [corpus.csv]",
	Short: "Fit the TF-IDF vectorizer and SVM classifier and install the model",
	Long: `Train reads a labeled CSV export and fits the TF-IDF vocabulary on
every ticket. It then holds out a test split, trains the one-vs-rest linear
SVM on the rest, prints a classification report for the held-out tickets
and installs the fitted model atomically.

The corpus path defaults to corpus_path from triage.yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().Float64Var(&flagTrainTestSize, "test-size", 0, "Fraction of tickets held out for evaluation (default from config)")
	trainCmd.Flags().StringVar(&flagTrainOut, "out", "", "Install the model into this directory instead of model_dir")
	trainCmd.Flags().BoolVar(&flagTrainSamples, "samples", true, "Classify a few sample tickets after training")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	corpusPath := cfg.CorpusPath
	if len(args) == 1 {
		corpusPath = args[0]
	}
	if corpusPath == "" {
		return fmt.Errorf("no corpus given: pass a CSV path or set corpus_path in triage.yaml")
	}
	testSize := cfg.TestSize
	if cmd.Flags().Changed("test-size") {
		testSize = flagTrainTestSize
	}
	dest := cfg.ModelDir
	if flagTrainOut != "" {
		if dest, err = config.ExpandPath(flagTrainOut); err != nil {
			return err
		}
	}

	printSection("Train")

	// ── 1. Load corpus ───────────────────────────────────────────────────────
	corpus, err := dataset.LoadCSV(corpusPath, cfg.TextColumn, cfg.LabelColumn)
	if err != nil {
		return err
	}
	if corpus.Skipped > 0 {
		printWarn("", fmt.Sprintf("%d rows skipped (empty %s or %s)", corpus.Skipped, cfg.TextColumn, cfg.LabelColumn))
	}
	printInfo("", fmt.Sprintf("%d tickets in %d categories from %s", corpus.Len(), len(corpus.Classes()), corpusPath))
	logger.Debug("category distribution", "counts", corpus.Counts())

	// ── 2. Fit vocabulary on the full corpus, classifier on the train split ──
	opts := fitOptions(cfg)
	vec, err := features.Fit(corpus.Documents, opts.Features)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	train, test, err := dataset.TrainTestSplit(corpus, testSize, cfg.Seed)
	if err != nil {
		return err
	}
	p, err := pipeline.FitClassifier(cmd.Context(), vec, train.Documents, train.Labels, opts.Classifier, logger)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	printOK("", fmt.Sprintf("fitted on %d tickets, vocabulary of %d terms", train.Len(), p.Vectorizer().Len()))

	// ── 3. Evaluate on the held-out split ────────────────────────────────────
	predicted, err := p.Labels(test.Documents)
	if err != nil {
		return err
	}
	report, err := metrics.Report(test.Labels, predicted, p.Classes())
	if err != nil {
		return err
	}
	printSection("Model evaluation")
	report.Render(os.Stdout)

	// ── 4. Install ───────────────────────────────────────────────────────────
	// Stage next to dest so Install is a same-filesystem rename.
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", parent, err)
	}
	tmpDir, err := os.MkdirTemp(parent, ".model-*")
	if err != nil {
		return fmt.Errorf("cannot create temp model dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	manifest, err := model.Write(tmpDir, p, model.Metadata{
		Classifier: opts.Classifier,
		CorpusHash: corpus.Hash(),
		TrainSize:  train.Len(),
		TestSize:   test.Len(),
		Accuracy:   report.Accuracy,
	})
	if err != nil {
		return fmt.Errorf("cannot write model: %w", err)
	}
	if err := model.Install(tmpDir, dest); err != nil {
		return fmt.Errorf("cannot install model: %w", err)
	}
	printOK("", fmt.Sprintf("model %s installed: %s", manifest.ModelID, dest))

	if flagTrainSamples {
		printSection("Sample predictions")
		preds, err := p.ClassifyBatch(sampleTickets)
		if err != nil {
			return err
		}
		for i, pr := range preds {
			printInfo(pr.Label, sampleTickets[i])
		}
	}
	return nil
}

// fitOptions maps the configuration onto extractor and classifier settings.
func fitOptions(cfg *config.Config) pipeline.FitOptions {
	stop := append([]string(nil), cfg.Features.StopWords...)
	sort.Strings(stop)
	return pipeline.FitOptions{
		Features: features.Options{
			PreserveCase: cfg.Features.PreserveCase,
			MinTokenLen:  cfg.Features.MinTokenLen,
			StopWords:    stop,
			Sublinear:    cfg.Features.SublinearTF,
			Norm:         features.NormL2,
		},
		Classifier: svm.Params{
			C:                cfg.Classifier.C,
			Loss:             svm.Loss(strings.ToLower(cfg.Classifier.Loss)),
			MaxIter:          cfg.Classifier.MaxIter,
			Tol:              cfg.Classifier.Tol,
			Seed:             cfg.Seed,
			InterceptScaling: 1,
			Classes:          cfg.Categories,
		},
	}
}
