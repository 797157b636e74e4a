package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
)

// GenerationParams holds per-phase oracle sampling parameters.
type GenerationParams struct {
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gt=0"`
}

// OracleConfig selects and authenticates the oracle backend. The API key is
// read from the named environment variable, never stored in the file.
type OracleConfig struct {
	Provider  string `yaml:"provider" validate:"required,oneof=anthropic"`
	ModelID   string `yaml:"model_id" validate:"required"`
	APIKeyEnv string `yaml:"api_key_env" validate:"required"`
}

// APIKey resolves the key from the configured environment variable.
func (o OracleConfig) APIKey() string {
	return os.Getenv(o.APIKeyEnv)
}

// PipelineConfig holds the per-stage parameters.
type PipelineConfig struct {
	Propose GenerationParams `yaml:"propose"`
	Verify  GenerationParams `yaml:"verify"`
	Augment GenerationParams `yaml:"augment"`

	// Limit caps how many runs a batch pass touches; 0 means all.
	Limit int `yaml:"limit" validate:"gte=0"`
}

// KnowledgeConfig configures the ingestion stage.
type KnowledgeConfig struct {
	StorePath string `yaml:"store_path" validate:"required"`
	Workers   int    `yaml:"workers" validate:"gt=0"`
}

// Config is the root configuration document.
type Config struct {
	// ResultsDir is the root of the results tree the batch drivers scan.
	ResultsDir string `yaml:"results_dir" validate:"required"`

	// Status subdirectories under ResultsDir holding the runs each stage
	// operates on.
	InefficientDir string `yaml:"inefficient_dir" validate:"required"`
	WrongOutputDir string `yaml:"wrong_output_dir" validate:"required"`

	Oracle    OracleConfig    `yaml:"oracle"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration matching the pipeline's historical
// constants.
func Default() *Config {
	return &Config{
		ResultsDir:     "data/results",
		InefficientDir: "status_2_inefficient",
		WrongOutputDir: "status_3_wrong_output",
		Oracle: OracleConfig{
			Provider:  "anthropic",
			ModelID:   "claude-3-5-sonnet-20241022",
			APIKeyEnv: "ANTHROPIC_API_KEY",
		},
		Pipeline: PipelineConfig{
			Propose: GenerationParams{Temperature: 0.3, MaxTokens: 200},
			Verify:  GenerationParams{Temperature: 0.1, MaxTokens: 300},
			Augment: GenerationParams{Temperature: 0.7, MaxTokens: 1000},
		},
		Knowledge: KnowledgeConfig{
			StorePath: "data/knowledge.db",
			Workers:   4,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to read config file"),
			errors.Fields{"path": path},
		)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to parse config file"),
			errors.Fields{"path": path},
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags and returns a tagged error naming the
// first offending field.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "invalid configuration"),
				errors.Fields{"field": verrs[0].Namespace(), "tag": verrs[0].Tag()},
			)
		}
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}
	return nil
}
