package cmd

import (
	"fmt"
	"os"

	"github.com/kamusis/triage/internal/config"
	"github.com/spf13/cobra"
)

var flagInitForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default triage.yaml and .env template",
	Long: `Initialize the triage home (~/.triage/, or $TRIAGE_HOME).

Writes triage.yaml with the default categories, split and optimizer
settings, plus a .env template for TRIAGE_* overrides. An existing
triage.yaml is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing triage.yaml with defaults")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve ~/.triage directory ────────────────────────────────────────
	appDir, err := config.AppDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", appDir, err)
	}
	printOK("", fmt.Sprintf("Triage directory ready: %s", appDir))

	// ── 2. Write triage.yaml if missing ───────────────────────────────────────
	if _, err := os.Stat(cfgPath); err == nil && !flagInitForce {
		printInfo("", fmt.Sprintf("Config already exists: %s", cfgPath))
	} else {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	}

	// ── 3. Dotenv template ────────────────────────────────────────────────────
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("Overrides file: %s", envPath))

	// ── 4. Validate the result ────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	printInfo("", fmt.Sprintf("%d categories, model dir %s", len(cfg.Categories), cfg.ModelDir))
	fmt.Println("\nNext: triage train <corpus.csv>")
	return nil
}
