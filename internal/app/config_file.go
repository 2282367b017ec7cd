package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally onto the flags.
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
	Raw    string `yaml:"raw" json:"raw"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
		// Timeout is a Go duration string ("30s", "2m"); yaml has no
		// native duration scalar.
		Timeout string `yaml:"timeout" json:"timeout"`
	} `yaml:"llm" json:"llm"`

	Schema    string `yaml:"schema" json:"schema"`
	FirstPage bool   `yaml:"firstPage" json:"firstPage"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for flags the user did not
// set. explicit reports whether a flag (by name, e.g. "input", "llm.model")
// was given on the command line or through the environment; explicit values
// always win, even when they equal the built-in default. Variant is applied
// by the caller since it needs parsing.
func ApplyFileConfig(cfg *Config, fc FileConfig, explicit func(name string) bool) {
	if cfg == nil {
		return
	}
	if explicit == nil {
		explicit = func(string) bool { return false }
	}
	if !explicit("input") && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if !explicit("output") && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if !explicit("raw") && fc.Raw != "" {
		cfg.RawPath = fc.Raw
	}

	if !explicit("llm.base") && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if !explicit("llm.model") && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if !explicit("llm.key") && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if !explicit("llm.timeout") && fc.LLM.Timeout != "" {
		if d, err := time.ParseDuration(fc.LLM.Timeout); err == nil && d > 0 {
			cfg.LLMTimeout = d
		}
	}

	if !explicit("firstPage") && fc.FirstPage {
		cfg.FirstPageOnly = true
	}
	if !explicit("v") && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig checks the settings a run cannot start without.
func ValidateConfig(cfg Config) error {
	if cfg.InputPath == "" {
		return errors.New("config: input path is required")
	}
	if cfg.OutputPath == "" {
		return errors.New("config: output path is required")
	}
	if cfg.LLMModel == "" {
		return errors.New("config: llm.model is required (or set LLM_MODEL)")
	}
	if cfg.LLMTimeout < 0 {
		return errors.New("config: negative timeout is not allowed")
	}
	return nil
}
