package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DotEnvPath returns the absolute path to the dotenv file inside AppDir.
func DotEnvPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadDotEnv reads the dotenv file and returns key/value pairs. A missing
// file yields an empty map.
func LoadDotEnv() (map[string]string, error) {
	p, err := DotEnvPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	out, err := godotenv.Read(p)
	if err != nil {
		return nil, fmt.Errorf("cannot read dotenv file %s: %w", p, err)
	}
	return out, nil
}

// GetConfigValue returns the effective value for key, using process environment variables
// first and falling back to the dotenv file.
func GetConfigValue(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	dotenv, err := LoadDotEnv()
	if err != nil {
		return "", err
	}
	return dotenv[key], nil
}

// EnsureDotEnvTemplate creates the dotenv file if it does not already exist.
func EnsureDotEnvTemplate() error {
	p, err := DotEnvPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat dotenv file %s: %w", p, err)
	}

	body := "" +
		"# Overrides for triage.yaml; process environment wins over this file.\n" +
		"TRIAGE_LOG_LEVEL=\n" +
		"TRIAGE_MODEL_DIR=\n" +
		"TRIAGE_CORPUS_PATH=\n"

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		return fmt.Errorf("cannot write dotenv template %s: %w", p, err)
	}
	return nil
}

// ApplyOverrides replaces config fields with TRIAGE_* values from the
// environment or dotenv file, when set.
func ApplyOverrides(cfg *Config) error {
	for key, dst := range map[string]*string{
		"TRIAGE_LOG_LEVEL":   &cfg.LogLevel,
		"TRIAGE_MODEL_DIR":   &cfg.ModelDir,
		"TRIAGE_CORPUS_PATH": &cfg.CorpusPath,
	} {
		v, err := GetConfigValue(key)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		if *dst, err = ExpandPath(v); err != nil {
			return err
		}
	}
	return cfg.Validate()
}
