// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. LEDGER_LOG_LEVEL.
const EnvPrefix = "LEDGER"

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CurrencyConfig holds the home currency and the codes the validator accepts.
type CurrencyConfig struct {
	Home    string   `mapstructure:"home" yaml:"home"`
	Allowed []string `mapstructure:"allowed" yaml:"allowed"`
}

// ParserConfig tunes the extraction pipeline.
type ParserConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	MinAmount           float64 `mapstructure:"min_amount" yaml:"min_amount"`
	MaxAmount           float64 `mapstructure:"max_amount" yaml:"max_amount"`
	// DefaultDirection is applied to amounts without a direction cue.
	// "none" disables it.
	DefaultDirection string `mapstructure:"default_direction" yaml:"default_direction"`
}

// CategoriesConfig points at an optional taxonomy YAML file.
type CategoriesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// LedgerConfig locates the CSV ledger.
type LedgerConfig struct {
	File      string `mapstructure:"file" yaml:"file"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// AuthConfig lists the chat users allowed to record transactions. An empty
// list allows everyone.
type AuthConfig struct {
	Users []int64 `mapstructure:"users" yaml:"users"`
}

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Currency   CurrencyConfig   `mapstructure:"currency" yaml:"currency"`
	Parser     ParserConfig     `mapstructure:"parser" yaml:"parser"`
	Categories CategoriesConfig `mapstructure:"categories" yaml:"categories"`
	Ledger     LedgerConfig     `mapstructure:"ledger" yaml:"ledger"`
	Auth       AuthConfig       `mapstructure:"auth" yaml:"auth"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.chatledger")
	v.AddConfigPath(".chatledger")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. The bot deployment names its user list without the prefix
	if err := v.BindEnv("auth.users", EnvPrefix+"_AUTH_USERS", "AUTHORIZED_USERS"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind AUTHORIZED_USERS environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("currency.home", "RUB")
	v.SetDefault("currency.allowed", []string{"RUB", "USD", "EUR"})

	v.SetDefault("parser.confidence_threshold", 0.5)
	v.SetDefault("parser.min_amount", 1.0)
	v.SetDefault("parser.max_amount", 1000000.0)
	v.SetDefault("parser.default_direction", "expense")

	v.SetDefault("categories.file", "")

	v.SetDefault("ledger.file", "ledger.csv")
	v.SetDefault("ledger.delimiter", ",")

	v.SetDefault("auth.users", []int64{})
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Currency.Home) == "" {
		return fmt.Errorf("currency.home must not be empty")
	}

	if config.Parser.ConfidenceThreshold < 0.0 || config.Parser.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("parser.confidence_threshold must be between 0.0 and 1.0, got: %f", config.Parser.ConfidenceThreshold)
	}

	if config.Parser.MinAmount < 0 || config.Parser.MinAmount > config.Parser.MaxAmount {
		return fmt.Errorf("parser.min_amount (%v) must be between 0 and parser.max_amount (%v)",
			config.Parser.MinAmount, config.Parser.MaxAmount)
	}

	if _, err := config.DefaultDirection(); err != nil {
		return err
	}

	if config.Ledger.File == "" {
		return fmt.Errorf("ledger.file must not be empty")
	}

	if utf8.RuneCountInString(config.Ledger.Delimiter) != 1 {
		return fmt.Errorf("ledger delimiter must be a single character, got: %s", config.Ledger.Delimiter)
	}

	for _, id := range config.Auth.Users {
		if id <= 0 {
			return fmt.Errorf("auth.users must contain positive IDs, got: %d", id)
		}
	}

	return nil
}

// DefaultDirection parses parser.default_direction. "none" and "" disable
// the policy.
func (c *Config) DefaultDirection() (models.Direction, error) {
	raw := strings.ToLower(strings.TrimSpace(c.Parser.DefaultDirection))
	if raw == "" || raw == "none" {
		return models.DirectionUnknown, nil
	}
	d := models.ParseDirection(raw)
	if !d.IsKnown() {
		return models.DirectionUnknown, fmt.Errorf("invalid parser.default_direction: %s (must be 'expense', 'income' or 'none')", c.Parser.DefaultDirection)
	}
	return d, nil
}

// LedgerDelimiter returns the ledger delimiter as a rune.
func (c *Config) LedgerDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Ledger.Delimiter)
	return r
}

// NewLogger builds the logrus-backed logger described by the config.
func (c *Config) NewLogger() logging.Logger {
	return logging.NewLogrusAdapter(c.Log.Level, c.Log.Format)
}
