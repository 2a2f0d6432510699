package cmd

import (
	"fmt"
	"runtime"

	"github.com/kamusis/triage/internal/model"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show triage version, model format and build information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	fmt.Printf("Version:      %s\n", version)
	fmt.Printf("Commit:       %s\n", emptyAsNA(commit))
	fmt.Printf("Build Date:   %s\n", emptyAsNA(buildDate))
	fmt.Printf("Go Version:   %s\n", runtime.Version())
	fmt.Printf("OS/Arch:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("Model Format: v%d\n", model.FormatVersion)
	fmt.Printf("Installed:    %s\n", installedModelSummary())
	return nil
}

// installedModelSummary describes the model in model_dir, or n/a when none is readable.
func installedModelSummary() string {
	cfg, err := loadConfig()
	if err != nil {
		return emptyAsNA("")
	}
	m, err := model.ReadManifest(cfg.ModelDir)
	if err != nil {
		return emptyAsNA("")
	}
	return fmt.Sprintf("%s (format v%d, %d categories, created %s)", m.ModelID, m.FormatVersion, len(m.Classes), m.CreatedAt)
}

func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
