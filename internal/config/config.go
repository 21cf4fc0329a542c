// Package config defines the data structures related to configuration and
// includes functions for loading and converting the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/iwvelando/payoff-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for payoff-forecast.
type Configuration struct {
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Simulation SimulationConfig `yaml:"simulation,omitempty"`
	Debts      []Debt           `yaml:"debts"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format        string `yaml:"format,omitempty"`        // pretty, csv
	BreakdownRows int    `yaml:"breakdownRows,omitempty"` // rows rendered per debt
}

// SimulationConfig holds engine parameters.
type SimulationConfig struct {
	MaxMonths int `yaml:"maxMonths,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

func (conf *Configuration) applyDefaults() {
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
	}
	if conf.Output.BreakdownRows <= 0 {
		conf.Output.BreakdownRows = constants.DefaultBreakdownRows
	}
	if conf.Simulation.MaxMonths <= 0 {
		conf.Simulation.MaxMonths = constants.DefaultMaxMonths
	}
	for i := range conf.Debts {
		if conf.Debts[i].Currency == "" {
			conf.Debts[i].Currency = constants.FallbackCurrency
		}
		if conf.Debts[i].Kind == "" {
			conf.Debts[i].Kind = "card"
		}
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard errors surface from ToDebts.
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{}
	for i, debt := range conf.Debts {
		validator.Debts = append(validator.Debts, validation.DebtConfig{
			Index:          i,
			ID:             debt.ID,
			Kind:           debt.Kind,
			Currency:       debt.Currency,
			Balance:        debt.Balance,
			InterestRate:   debt.InterestRate,
			CreditLimit:    debt.CreditLimit,
			MinimumPayment: debt.MinimumPayment.Amount,
			MinimumPercent: debt.MinimumPayment.Percent,
			MonthlyPayment: debt.MonthlyPayment,
			HasPlan:        debt.Plan.Fixed != nil || debt.Plan.Default != nil,
			Purchases:      len(debt.Purchases),
		})
	}
	return validator.ValidateAll()
}
