// Package config defines the data structures related to configuration and
// includes functions for loading, parsing and converting the config into
// calculation inputs.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/iwvelando/hypothekenrechner/pkg/mortgage"
	"github.com/iwvelando/hypothekenrechner/pkg/rates"
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for hypothekenrechner.
type Configuration struct {
	Policy       PolicyConfig  `yaml:"policy,omitempty"`
	Rates        RatesConfig   `yaml:"rates,omitempty"`
	Applications []Application `yaml:"applications"`
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"`    // pretty, csv, json
	ExportDir string `yaml:"exportDir,omitempty"` // optional directory for HTML reports
}

// PolicyConfig overrides the financing policy. Unset values keep the
// defaults; fractions are plain fractions and rates annual percentages.
type PolicyConfig struct {
	RateMode                       string   `yaml:"rateMode,omitempty"`
	TierBasis                      string   `yaml:"tierBasis,omitempty"`
	Tier1Fraction                  *float64 `yaml:"tier1Fraction,omitempty"`
	Tier2Fraction                  *float64 `yaml:"tier2Fraction,omitempty"`
	SingleRate                     *float64 `yaml:"singleRate,omitempty"`
	Tier1Rate                      *float64 `yaml:"tier1Rate,omitempty"`
	Tier2Rate                      *float64 `yaml:"tier2Rate,omitempty"`
	Tier2Premium                   *float64 `yaml:"tier2Premium,omitempty"`
	AncillaryCostFraction          *float64 `yaml:"ancillaryCostFraction,omitempty"`
	AffordabilityThresholdFraction *float64 `yaml:"affordabilityThresholdFraction,omitempty"`
}

// RatesConfig selects where product rates come from.
type RatesConfig struct {
	Source string             `yaml:"source,omitempty"` // static, redis
	Static map[string]float64 `yaml:"static,omitempty"` // product (or alias) -> annual percent
	Redis  RedisConfig        `yaml:"redis,omitempty"`
}

// RedisConfig holds the connection settings of the live rate store.
type RedisConfig struct {
	Address   string `yaml:"address,omitempty"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

// Application is one configured buyer and property.
type Application struct {
	Name              string   `yaml:"name"`
	Address           string   `yaml:"address,omitempty"`
	Age               int      `yaml:"age,omitempty"`
	Active            bool     `yaml:"active"`
	PurchasePrice     float64  `yaml:"purchasePrice"`
	Equity            []Equity `yaml:"equity"`
	GrossAnnualIncome float64  `yaml:"grossAnnualIncome"`
	AmortizationYears int      `yaml:"amortizationYears"`
	Product           string   `yaml:"product"`
}

// Equity is one configured capital source. A missing amount counts as zero.
type Equity struct {
	Name   string   `yaml:"name"`
	Amount *float64 `yaml:"amount,omitempty"`
}

// envKeys are bound explicitly so environment variables work even when the
// file leaves the key out.
var envKeys = []string{
	"rates.source",
	"rates.redis.address",
	"rates.redis.password",
	"rates.redis.db",
	"rates.redis.keyprefix",
	"logging.level",
	"logging.format",
	"logging.outputfile",
	"output.format",
	"output.exportdir",
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("unable to bind environment variable for %s, %s", key, err)
		}
	}
	return v, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values can be overridden with HYPO_ prefixed
// environment variables, e.g. HYPO_RATES_REDIS_ADDRESS.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ToPolicy applies the configured overrides to the default policy and
// validates the result.
func (c *Configuration) ToPolicy() (mortgage.Policy, error) {
	policy := mortgage.DefaultPolicy()
	p := c.Policy

	if p.RateMode != "" {
		policy.RateMode = mortgage.RateMode(strings.ToUpper(p.RateMode))
	}
	if p.TierBasis != "" {
		policy.TierBasis = mortgage.TierBasis(strings.ToUpper(p.TierBasis))
	}

	setDecimal(&policy.Tier1Fraction, p.Tier1Fraction)
	setDecimal(&policy.Tier2Fraction, p.Tier2Fraction)
	setDecimal(&policy.Tier2Premium, p.Tier2Premium)
	setDecimal(&policy.AncillaryCostFraction, p.AncillaryCostFraction)
	setDecimal(&policy.AffordabilityThresholdFraction, p.AffordabilityThresholdFraction)
	setNullDecimal(&policy.SingleRate, p.SingleRate)
	setNullDecimal(&policy.Tier1Rate, p.Tier1Rate)
	setNullDecimal(&policy.Tier2Rate, p.Tier2Rate)

	if err := policy.Validate(); err != nil {
		return mortgage.Policy{}, fmt.Errorf("invalid policy configuration: %w", err)
	}
	return policy, nil
}

func setDecimal(target *decimal.Decimal, value *float64) {
	if value != nil {
		*target = decimal.NewFromFloat(*value)
	}
}

func setNullDecimal(target *decimal.NullDecimal, value *float64) {
	if value != nil {
		*target = mortgage.Amount(decimal.NewFromFloat(*value))
	}
}

// RateTable returns the built-in rate table with the configured static
// rates applied on top.
func (c *Configuration) RateTable() (rates.Table, error) {
	table := rates.DefaultTable()
	for name, rate := range c.Rates.Static {
		product, err := rates.ParseProduct(name)
		if err != nil {
			return nil, fmt.Errorf("invalid static rate: %w", err)
		}
		table[product] = decimal.NewFromFloat(rate)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid static rate: %w", err)
	}
	return table, nil
}

// ToInputs converts the application into calculation inputs.
func (a Application) ToInputs() (mortgage.FinancingInputs, error) {
	inputs := mortgage.FinancingInputs{
		PurchasePrice:     decimal.NewFromFloat(a.PurchasePrice),
		GrossAnnualIncome: decimal.NewFromFloat(a.GrossAnnualIncome),
		AmortizationYears: a.AmortizationYears,
	}

	if a.Product != "" {
		product, err := rates.ParseProduct(a.Product)
		if err != nil {
			return mortgage.FinancingInputs{}, validation.Errorf("product", "is unknown: %s", a.Product)
		}
		inputs.Product = product
	}

	for _, equity := range a.Equity {
		component := mortgage.EquityComponent{Name: equity.Name}
		if equity.Amount != nil {
			component.Amount = mortgage.Amount(decimal.NewFromFloat(*equity.Amount))
		}
		inputs.Equity = append(inputs.Equity, component)
	}

	return inputs, nil
}

// TotalEquity is the sum of the configured equity amounts.
func (a Application) TotalEquity() decimal.Decimal {
	total := decimal.Zero
	for _, equity := range a.Equity {
		if equity.Amount != nil {
			total = total.Add(decimal.NewFromFloat(*equity.Amount))
		}
	}
	return total
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	loanToValueCap := mortgage.DefaultPolicy().LoanToValueCap()
	if policy, err := c.ToPolicy(); err == nil {
		loanToValueCap = policy.LoanToValueCap()
	}

	applications := make([]validation.ApplicationConfig, 0, len(c.Applications))
	for _, app := range c.Applications {
		_, err := rates.ParseProduct(app.Product)
		applications = append(applications, validation.ApplicationConfig{
			Name:          app.Name,
			Active:        app.Active,
			PurchasePrice: decimal.NewFromFloat(app.PurchasePrice),
			TotalEquity:   app.TotalEquity(),
			Product:       app.Product,
			ProductKnown:  err == nil,
		})
	}

	validator := validation.ConfigValidator{
		LoanToValueCap: loanToValueCap,
		Applications:   applications,
	}
	return validator.ValidateAll()
}
