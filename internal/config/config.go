package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Features configures the TF-IDF tokenizer.
type Features struct {
	MinTokenLen  int      `yaml:"min_token_len" validate:"gte=1"`
	StopWords    []string `yaml:"stop_words,omitempty"`
	SublinearTF  bool     `yaml:"sublinear_tf,omitempty"`
	PreserveCase bool     `yaml:"preserve_case,omitempty"`
}

// Classifier configures the linear SVM optimizer.
type Classifier struct {
	C       float64 `yaml:"c" validate:"gt=0"`
	Loss    string  `yaml:"loss" validate:"oneof=hinge squared_hinge"`
	MaxIter int     `yaml:"max_iter" validate:"gte=1"`
	Tol     float64 `yaml:"tol" validate:"gt=0"`
}

// Config is the in-memory representation of ~/.triage/triage.yaml.
type Config struct {
	ModelDir    string     `yaml:"model_dir" validate:"required"`
	CorpusPath  string     `yaml:"corpus_path,omitempty"`
	TextColumn  string     `yaml:"text_column" validate:"required"`
	LabelColumn string     `yaml:"label_column" validate:"required"`
	Categories  []string   `yaml:"categories" validate:"min=2,unique,dive,required"`
	TestSize    float64    `yaml:"test_size" validate:"gt=0,lt=1"`
	Seed        uint64     `yaml:"seed"`
	LogLevel    string     `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Features    Features   `yaml:"features"`
	Classifier  Classifier `yaml:"classifier"`
}

// Categories is the closed set of ticket categories, in tie-break order.
var Categories = []string{
	"Hardware",
	"HR Support",
	"Access",
	"Miscellaneous",
	"Storage",
	"Purchase",
	"Internal Project",
	"Administrative rights",
}

// AppDir returns the absolute path to the triage home, $TRIAGE_HOME or ~/.triage/.
func AppDir() (string, error) {
	if v := os.Getenv("TRIAGE_HOME"); v != "" {
		return ExpandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".triage"), nil
}

// ConfigPath returns the absolute path to triage.yaml inside AppDir.
func ConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "triage.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the default Config written on first triage init.
func DefaultConfig() (*Config, error) {
	dir, err := AppDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		ModelDir:    filepath.Join(dir, "model"),
		CorpusPath:  "all_tickets_processed_improved_v3.csv",
		TextColumn:  "Document",
		LabelColumn: "Topic_group",
		Categories:  append([]string(nil), Categories...),
		TestSize:    0.2,
		Seed:        42,
		LogLevel:    "info",
		Features: Features{
			MinTokenLen: 2,
		},
		Classifier: Classifier{
			C:       1.0,
			Loss:    "squared_hinge",
			MaxIter: 1000,
			Tol:     1e-4,
		},
	}, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads and parses triage.yaml. Missing fields keep their defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	// Expand ~ in paths at load time.
	if cfg.ModelDir, err = ExpandPath(cfg.ModelDir); err != nil {
		return nil, err
	}
	if cfg.CorpusPath, err = ExpandPath(cfg.CorpusPath); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save marshals cfg and writes it to triage.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
