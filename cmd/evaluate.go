package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kamusis/triage/internal/dataset"
	"github.com/kamusis/triage/internal/metrics"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var flagEvaluateConfusion bool

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <corpus.csv>",
	Short: "Score the installed model against a labeled CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().BoolVar(&flagEvaluateConfusion, "confusion", false, "Also print the confusion matrix")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, manifest, err := loadInstalledModel(cfg)
	if err != nil {
		return err
	}
	corpus, err := dataset.LoadCSV(args[0], cfg.TextColumn, cfg.LabelColumn)
	if err != nil {
		return err
	}

	printSection("Evaluate")
	printInfo("", fmt.Sprintf("model %s on %d tickets from %s", manifest.ModelID, corpus.Len(), args[0]))
	for _, c := range lo.Without(corpus.Classes(), p.Classes()...) {
		printErr(c, "category unknown to the model; its tickets can never be predicted correctly")
	}

	predicted, err := p.Labels(corpus.Documents)
	if err != nil {
		return err
	}
	report, err := metrics.Report(corpus.Labels, predicted, p.Classes())
	if err != nil {
		return err
	}
	report.Render(os.Stdout)

	if flagEvaluateConfusion {
		labels, m, err := metrics.ConfusionMatrix(corpus.Labels, predicted, p.Classes())
		if err != nil {
			return err
		}
		printSection("Confusion matrix (rows: true, columns: predicted)")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader(append([]string{""}, labels...))
		table.SetBorder(false)
		table.SetAutoFormatHeaders(false)
		for i, row := range m {
			table.Append(append([]string{labels[i]}, lo.Map(row, func(n int, _ int) string { return strconv.Itoa(n) })...))
		}
		table.Render()
	}
	return nil
}
