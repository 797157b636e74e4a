package commands

import (
	"path/filepath"

	"github.com/XiaoConstantine/trajectory-go/pkg/config"
	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/llms"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
)

// loadConfig reads the config file when given, otherwise falls back to
// defaults, and points the global logger at the configured level.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.LogLevel),
		Outputs:  []logging.Output{logging.NewConsoleOutput(true)},
	}))
	return cfg, nil
}

// buildOracle constructs the configured oracle backend.
func buildOracle(cfg *config.Config) (core.Oracle, error) {
	apiKey := cfg.Oracle.APIKey()
	if apiKey == "" {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "oracle API key environment variable is empty"),
			errors.Fields{"env": cfg.Oracle.APIKeyEnv},
		)
	}
	return llms.NewOracle(cfg.Oracle.Provider, cfg.Oracle.ModelID, apiKey)
}

// resolveRoot picks the scan root: an explicit --root wins, otherwise the
// named status subdirectory under the configured results dir.
func resolveRoot(cfg *config.Config, explicit, statusDir string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(cfg.ResultsDir, statusDir)
}
