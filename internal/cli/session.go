package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/overhang-risk/internal/config"
	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// session is the loaded configuration and logger shared by the analysis
// commands.
type session struct {
	conf   *config.Configuration
	logger *zap.Logger
}

// loadConfiguration reads the analysis config. When the default config file
// is absent the built-in unit mix is used, still subject to OVERHANG_
// environment overrides.
func loadConfiguration(path string) (*config.Configuration, error) {
	if path == constants.DefaultConfigFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			data, err := yaml.Marshal(config.Default())
			if err != nil {
				return nil, fmt.Errorf("failed to encode default configuration: %w", err)
			}
			return config.LoadConfigurationFromReader(bytes.NewReader(data))
		}
	}
	return config.LoadConfiguration(path)
}

func newSession(opts *RootOptions, op string) (*session, error) {
	conf, err := loadConfiguration(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", opts.ConfigPath, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", op),
		)
	}

	return &session{conf: conf, logger: logger}, nil
}

func (s *session) analyze(op string) (*overhang.Analysis, error) {
	a, err := s.conf.Analyze()
	if err != nil {
		s.logger.Error("failed to compute overhang analysis",
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("overhang analysis computed",
		zap.String("op", op),
		zap.String("scenario", string(a.Scenario)),
		zap.Float64("minExposure", a.MinExposure),
		zap.Float64("maxExposure", a.MaxExposure),
		zap.Float64("selectedExposure", a.SelectedExposure),
	)
	return a, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
