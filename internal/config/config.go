// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/iwvelando/overhang-risk/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for an overhang analysis.
type Configuration struct {
	Logging  LoggingConfig        `yaml:"logging,omitempty" mapstructure:"logging"`
	Output   OutputConfig         `yaml:"output,omitempty" mapstructure:"output"`
	Vouchers overhang.VoucherPool `yaml:"vouchers" mapstructure:"vouchers"`
	Scenario string               `yaml:"scenario" mapstructure:"scenario"`
	Units    []overhang.UnitType  `yaml:"units" mapstructure:"units"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // pretty, csv, json, markdown
	ExportFile string `yaml:"exportFile,omitempty" mapstructure:"exportFile"` // workbook path for the export command
}

// Default returns the unit mix and voucher counts the dashboard opens with.
func Default() *Configuration {
	return &Configuration{
		Output: OutputConfig{
			Format:     constants.OutputFormatPretty,
			ExportFile: constants.DefaultExportFile,
		},
		Vouchers: overhang.VoucherPool{ProjectBased: 20, TenantBased: 15},
		Scenario: string(overhang.ScenarioMaxRisk),
		Units: []overhang.UnitType{
			{Label: "1BR", Units: 10, LIHTCMaxRent: 1000, UtilityAllowance: 100, Section8Rent: 1450},
			{Label: "2BR", Units: 20, LIHTCMaxRent: 1200, UtilityAllowance: 120, Section8Rent: 1700},
			{Label: "3BR", Units: 5, LIHTCMaxRent: 1400, UtilityAllowance: 150, Section8Rent: 2000},
		},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with OVERHANG_ override
// scalar settings, e.g. OVERHANG_VOUCHERS_TENANTBASED=12.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("scenario", string(overhang.ScenarioMaxRisk))
	v.SetDefault("vouchers.projectBased", 0)
	v.SetDefault("vouchers.tenantBased", 0)
	v.SetDefault("output.format", "")
	v.SetDefault("output.exportFile", constants.DefaultExportFile)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Portfolio returns an immutable snapshot of the configured unit mix.
func (c *Configuration) Portfolio() overhang.Portfolio {
	return overhang.NewPortfolio(c.Units)
}

// Validate rejects configurations the allocator cannot run on: an empty unit
// table, negative counts or an unknown scenario.
func (c *Configuration) Validate() error {
	if err := c.Portfolio().Validate(); err != nil {
		return fmt.Errorf("invalid unit table: %w", err)
	}
	if err := c.Vouchers.Validate(); err != nil {
		return fmt.Errorf("invalid vouchers: %w", err)
	}
	if _, err := overhang.ParseScenario(c.Scenario); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	units := make([]validation.UnitConfig, 0, len(c.Units))
	for _, u := range c.Units {
		units = append(units, validation.UnitConfig{
			Label:        u.Label,
			Units:        u.Units,
			NetLIHTCRent: u.NetLIHTCRent(),
			Section8Rent: u.Section8Rent,
		})
	}

	validator := validation.PortfolioValidator{
		Units:        units,
		ProjectBased: c.Vouchers.ProjectBased,
		TenantBased:  c.Vouchers.TenantBased,
	}
	return validator.ValidateAll()
}

// Analyze validates the configuration and runs the overhang analysis for the
// configured scenario.
func (c *Configuration) Analyze() (*overhang.Analysis, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return overhang.Analyze(c.Portfolio(), c.Vouchers, overhang.Scenario(c.Scenario))
}
