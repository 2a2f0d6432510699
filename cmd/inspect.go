package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kamusis/triage/internal/model"
	"github.com/kamusis/triage/internal/svm"
	"github.com/spf13/cobra"
)

var flagInspectTop int

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the manifest of the installed model",
	Long: `Display a summary of the installed model: id, training provenance,
category order, tokenizer and optimizer settings.

With --top N, also list the N terms with the largest weight per category.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&flagInspectTop, "top", 0, "Show the N highest-weighted terms per category")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := model.ReadManifest(cfg.ModelDir)
	if err != nil {
		return fmt.Errorf("cannot read model in %s: %w\nRun 'triage train' first.", cfg.ModelDir, err)
	}

	printSection("Model")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID:\t%s\n", m.ModelID)
	fmt.Fprintf(w, "  Created:\t%s\n", m.CreatedAt)
	fmt.Fprintf(w, "  Format:\tv%d\n", m.FormatVersion)
	fmt.Fprintf(w, "  Directory:\t%s\n", cfg.ModelDir)
	fmt.Fprintf(w, "  Vocabulary:\t%d terms\n", m.Dim)
	fmt.Fprintf(w, "  Corpus:\t%s\n", emptyAsNA(m.CorpusHash))
	fmt.Fprintf(w, "  Split:\t%d train / %d test\n", m.TrainSize, m.TestSize)
	fmt.Fprintf(w, "  Accuracy:\t%.4f\n", m.Accuracy)
	fmt.Fprintf(w, "  Tokenizer:\tmin_len=%d lowercase=%t sublinear_tf=%t norm=%s stop_words=%d\n",
		m.Features.MinTokenLen, !m.Features.PreserveCase, m.Features.Sublinear, m.Features.Norm, len(m.Features.StopWords))
	fmt.Fprintf(w, "  Classifier:\tloss=%s C=%g max_iter=%d tol=%g seed=%d\n",
		m.Classifier.Loss, m.Classifier.C, m.Classifier.MaxIter, m.Classifier.Tol, m.Classifier.Seed)
	_ = w.Flush()

	fmt.Println("\nCategories (tie-break order):")
	for i, c := range m.Classes {
		fmt.Printf("  %d. %s\n", i+1, c)
	}

	if flagInspectTop > 0 {
		p, _, err := loadInstalledModel(cfg)
		if err != nil {
			return err
		}
		printTopTerms(p.Vectorizer().Terms(), p.Model(), flagInspectTop)
	}
	return nil
}

type weightedTerm struct {
	term   string
	weight float64
}

func printTopTerms(terms []string, clf *svm.Model, n int) {
	printSection("Top terms")
	for k, class := range clf.Classes() {
		ws := clf.Weights(k)
		ranked := make([]weightedTerm, len(ws))
		for i, v := range ws {
			ranked[i] = weightedTerm{term: terms[i], weight: v}
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].weight > ranked[j].weight })
		if len(ranked) > n {
			ranked = ranked[:n]
		}
		parts := make([]string, len(ranked))
		for i, r := range ranked {
			parts[i] = fmt.Sprintf("%s (%.2f)", r.term, r.weight)
		}
		fmt.Printf("  %s: %s\n", bold(class), strings.Join(parts, ", "))
	}
}
