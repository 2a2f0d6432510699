package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kamusis/triage/internal/config"
	"github.com/kamusis/triage/internal/model"
	"github.com/kamusis/triage/internal/pipeline"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	flagPredictChosen string
	flagPredictScores bool
	flagPredictJSON   bool
)

var predictCmd = &cobra.Command{
	Use:   "predict <description...>",
	Short: "Predict the category of a ticket description",
	Long: `Predict classifies a ticket description with the installed model.

Pass "-" to classify one description per line from stdin.

With --chosen, the prediction is compared against the category the ticket
was filed under and the command reports a match or a mismatch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&flagPredictChosen, "chosen", "", "Category chosen by the submitter, compared against the prediction")
	predictCmd.Flags().BoolVar(&flagPredictScores, "scores", false, "Show the decision score of every category")
	predictCmd.Flags().BoolVar(&flagPredictJSON, "json", false, "Print predictions as JSON lines")
	rootCmd.AddCommand(predictCmd)
}

type predictionOutput struct {
	ModelID string           `json:"model_id"`
	Text    string           `json:"text"`
	Label   string           `json:"label"`
	Scores  []pipeline.Score `json:"scores,omitempty"`
	Chosen  string           `json:"chosen,omitempty"`
	Match   *bool            `json:"match,omitempty"`
}

func runPredict(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, manifest, err := loadInstalledModel(cfg)
	if err != nil {
		return err
	}

	texts := []string{strings.Join(args, " ")}
	if len(args) == 1 && args[0] == "-" {
		if texts, err = readLines(os.Stdin); err != nil {
			return err
		}
	}

	if flagPredictChosen != "" && !lo.Contains(cfg.Categories, flagPredictChosen) {
		printWarn("", fmt.Sprintf("%q is not one of the configured categories", flagPredictChosen))
	}

	preds, err := p.ClassifyBatch(texts)
	if err != nil {
		return err
	}

	if flagPredictJSON {
		enc := json.NewEncoder(os.Stdout)
		for i, pr := range preds {
			out := predictionOutput{ModelID: manifest.ModelID, Text: texts[i], Label: pr.Label}
			if flagPredictScores {
				out.Scores = pr.Scores
			}
			if flagPredictChosen != "" {
				out.Chosen = flagPredictChosen
				out.Match = lo.ToPtr(pr.Matches(flagPredictChosen))
			}
			if err := enc.Encode(out); err != nil {
				return err
			}
		}
		return nil
	}

	for i, pr := range preds {
		if len(preds) > 1 {
			fmt.Printf("\n%s\n", texts[i])
		}
		fmt.Printf("Predicted category: %s\n", bold(pr.Label))
		if flagPredictScores {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, s := range pr.Scores {
				fmt.Fprintf(w, "  %s\t%+.4f\n", s.Category, s.Value)
			}
			_ = w.Flush()
		}
		if flagPredictChosen == "" {
			continue
		}
		if pr.Matches(flagPredictChosen) {
			printOK("", fmt.Sprintf("matches the chosen category %q", flagPredictChosen))
		} else {
			printWarn("", fmt.Sprintf("mismatch: chosen %q, model predicts %q", flagPredictChosen, pr.Label))
		}
	}
	return nil
}

// loadInstalledModel loads the model installed in cfg.ModelDir.
func loadInstalledModel(cfg *config.Config) (*pipeline.Pipeline, *model.Manifest, error) {
	p, m, err := model.Load(cfg.ModelDir)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load model from %s: %w\nRun 'triage train' first.", cfg.ModelDir, err)
	}
	return p, m, nil
}

func readLines(f *os.File) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read stdin: %w", err)
	}
	return out, nil
}
