// Package config defines the data structures related to configuration and
// includes functions for loading, normalizing and validating it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/iwvelando/bpo-report/internal/report"
	"github.com/iwvelando/bpo-report/internal/theorem"
	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/format"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	"github.com/iwvelando/bpo-report/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for bpo-report.
type Configuration struct {
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging,omitempty"`
	Output       OutputConfig       `mapstructure:"output" yaml:"output,omitempty"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server,omitempty"`
	Report       ReportConfig       `mapstructure:"report" yaml:"report,omitempty"`
	BusinessCase BusinessCaseConfig `mapstructure:"businessCase" yaml:"businessCase,omitempty"`
	Store        StoreConfig        `mapstructure:"store" yaml:"store,omitempty"`
	Demo         DemoConfig         `mapstructure:"demo" yaml:"demo,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string       `mapstructure:"format" yaml:"format,omitempty"` // pretty, json, csv, yaml
	Currency string       `mapstructure:"currency" yaml:"currency,omitempty"`
	Locale   string       `mapstructure:"locale" yaml:"locale,omitempty"`
	Jitter   JitterConfig `mapstructure:"jitter" yaml:"jitter,omitempty"`
}

// JitterConfig controls the presentation-only perturbation of displayed savings.
type JitterConfig struct {
	Seed      uint64  `mapstructure:"seed" yaml:"seed,omitempty"`
	Amplitude float64 `mapstructure:"amplitude" yaml:"amplitude,omitempty"`
}

// ServerConfig holds the HTTP listener options.
type ServerConfig struct {
	Address     string `mapstructure:"address" yaml:"address,omitempty"`
	MaxBodySize string `mapstructure:"maxBodySize" yaml:"maxBodySize,omitempty"` // e.g. 64K, 1M
	AuthToken   string `mapstructure:"authToken" yaml:"authToken,omitempty"`
}

// ReportConfig tunes the aggregation.
type ReportConfig struct {
	ImplementationCost float64       `mapstructure:"implementationCost" yaml:"implementationCost,omitempty"`
	TopN               int           `mapstructure:"topN" yaml:"topN,omitempty"`
	PhaseWeeks         int           `mapstructure:"phaseWeeks" yaml:"phaseWeeks,omitempty"`
	Rules              []report.Rule `mapstructure:"rules" yaml:"rules,omitempty"`
}

// BusinessCaseConfig is the input of the precomputed business case.
type BusinessCaseConfig struct {
	MonthlyCost   float64 `mapstructure:"monthlyCost" yaml:"monthlyCost,omitempty"`
	AgentCount    int     `mapstructure:"agentCount" yaml:"agentCount,omitempty"`
	CallsPerMonth int     `mapstructure:"callsPerMonth" yaml:"callsPerMonth,omitempty"`
}

// Input converts the business case into an optimization input.
func (b BusinessCaseConfig) Input() optimization.Input {
	return optimization.Input{MonthlyCost: b.MonthlyCost, AgentCount: b.AgentCount, CallsPerMonth: b.CallsPerMonth}
}

// StoreConfig selects the report archive.
type StoreConfig struct {
	Driver     string `mapstructure:"driver" yaml:"driver,omitempty"` // memory, sqlite, postgres
	DSN        string `mapstructure:"dsn" yaml:"dsn,omitempty"`
	MaxRecords int    `mapstructure:"maxRecords" yaml:"maxRecords,omitempty"`
	CacheSize  int    `mapstructure:"cacheSize" yaml:"cacheSize,omitempty"`
}

// DemoConfig sizes the synthetic dataset.
type DemoConfig struct {
	Seed    uint64 `mapstructure:"seed" yaml:"seed,omitempty"`
	Agents  int    `mapstructure:"agents" yaml:"agents,omitempty"`
	Tickets int    `mapstructure:"tickets" yaml:"tickets,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	conf := &Configuration{}
	conf.normalize()
	return conf
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with BPO_ override file
// values (BPO_SERVER_ADDRESS overrides server.address) and a .env file in the
// working directory is loaded first. An empty path, or a missing file at the
// default location, yields the defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !(errors.Is(err, fs.ErrNotExist) && configPath == constants.DefaultConfigFile) {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.normalize()
	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.currency", constants.DefaultCurrencySymbol)
	v.SetDefault("output.locale", constants.DefaultLocale)
	v.SetDefault("output.jitter.seed", 0)
	v.SetDefault("output.jitter.amplitude", 0.0)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", "64K")
	v.SetDefault("server.authToken", "")
	v.SetDefault("report.implementationCost", constants.DefaultImplementationCost)
	v.SetDefault("report.topN", constants.DefaultTopN)
	v.SetDefault("report.phaseWeeks", constants.DefaultPhaseWeeks)
	v.SetDefault("businessCase.monthlyCost", constants.DefaultBusinessCaseMonthlyCost)
	v.SetDefault("businessCase.agentCount", constants.DefaultBusinessCaseAgentCount)
	v.SetDefault("businessCase.callsPerMonth", constants.DefaultBusinessCaseCallsPerMonth)
	v.SetDefault("store.driver", constants.StoreDriverMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.maxRecords", constants.DefaultMaxRecords)
	v.SetDefault("store.cacheSize", constants.DefaultCacheSize)
	v.SetDefault("demo.seed", constants.DefaultDemoSeed)
	v.SetDefault("demo.agents", constants.DefaultDemoAgents)
	v.SetDefault("demo.tickets", constants.DefaultDemoTickets)
}

// normalize fills the fields that were left empty.
func (c *Configuration) normalize() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if c.Output.Currency == "" {
		c.Output.Currency = constants.DefaultCurrencySymbol
	}
	if c.Output.Locale == "" {
		c.Output.Locale = constants.DefaultLocale
	}
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.BusinessCase == (BusinessCaseConfig{}) {
		c.BusinessCase = BusinessCaseConfig{
			MonthlyCost:   constants.DefaultBusinessCaseMonthlyCost,
			AgentCount:    constants.DefaultBusinessCaseAgentCount,
			CallsPerMonth: constants.DefaultBusinessCaseCallsPerMonth,
		}
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = constants.StoreDriverMemory
	}
	if c.Store.MaxRecords <= 0 {
		c.Store.MaxRecords = constants.DefaultMaxRecords
	}
	if c.Store.CacheSize <= 0 {
		c.Store.CacheSize = constants.DefaultCacheSize
	}
	if c.Demo.Agents <= 0 {
		c.Demo.Agents = constants.DefaultDemoAgents
	}
	if c.Demo.Tickets <= 0 {
		c.Demo.Tickets = constants.DefaultDemoTickets
	}
}

// ReportOptions converts the report section into aggregator options.
func (c *Configuration) ReportOptions(f *format.Formatter) report.Options {
	return report.Options{
		ImplementationCost: c.Report.ImplementationCost,
		TopN:               c.Report.TopN,
		PhaseWeeks:         c.Report.PhaseWeeks,
		Rules:              c.Report.Rules,
		Formatter:          f,
	}
}

// Formatter builds the currency formatter for the output section.
func (c *Configuration) Formatter() (*format.Formatter, error) {
	return format.NewFormatter(c.Output.Locale, c.Output.Currency)
}

// ValidateConfiguration performs general validation of the configuration. It
// returns warnings for recoverable problems and an error for settings that
// would prevent the application from starting.
func (c *Configuration) ValidateConfiguration() ([]string, error) {
	validator := validation.ConfigValidator{
		Report: validation.ReportSettings{
			ImplementationCost: c.Report.ImplementationCost,
			TopN:               c.Report.TopN,
			PhaseWeeks:         c.Report.PhaseWeeks,
			TableSize:          theorem.DefaultTable().Len(),
		},
		Output: validation.OutputSettings{
			Format:          c.Output.Format,
			JitterAmplitude: c.Output.Jitter.Amplitude,
		},
		Store: validation.StoreSettings{
			Driver: c.Store.Driver,
			DSN:    c.Store.DSN,
		},
		BusinessCase: c.BusinessCase.Input(),
		AuthToken:    c.Server.AuthToken,
	}

	warnings, err := validator.ValidateAll()
	errs := []error{err}

	if _, ferr := c.Formatter(); ferr != nil {
		errs = append(errs, fmt.Errorf("output: %w", ferr))
	}
	if c.Report.Rules != nil {
		if rerr := report.ValidateRules(c.Report.Rules); rerr != nil {
			errs = append(errs, fmt.Errorf("report.rules: %w", rerr))
		}
	}

	return warnings, errors.Join(errs...)
}
