// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/stmt-import/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "STMT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	// Import holds the default options of every import run.
	Import struct {
		Encoding           string `mapstructure:"encoding" yaml:"encoding"`
		Separator          string `mapstructure:"separator" yaml:"separator"`
		QuoteChar          string `mapstructure:"quote_char" yaml:"quote_char"`
		HasHeader          bool   `mapstructure:"has_header" yaml:"has_header"`
		DateFormat         string `mapstructure:"date_format" yaml:"date_format"`
		DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
		ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
		OnError            string `mapstructure:"on_error" yaml:"on_error"`
		CreatePartner      bool   `mapstructure:"create_partner" yaml:"create_partner"`
		Sheet              string `mapstructure:"sheet" yaml:"sheet"`
	} `mapstructure:"import" yaml:"import"`

	Ledger struct {
		// Directory holds ledger.yaml and the statement files. Empty means
		// $HOME/.stmt-import/ledger.
		Directory string `mapstructure:"directory" yaml:"directory"`
		Journal   string `mapstructure:"journal" yaml:"journal"`
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"ledger" yaml:"ledger"`

	Report struct {
		Format      string `mapstructure:"format" yaml:"format"`
		ShowRecords bool   `mapstructure:"show_records" yaml:"show_records"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFile("")
}

// InitializeConfigFile loads the configuration like InitializeConfig, but
// reads the given file instead of searching the default locations. Unlike a
// searched file, an explicit file must exist.
func InitializeConfigFile(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.stmt-import")
		v.AddConfigPath(".stmt-import")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file or variable is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Import defaults
	d := models.DefaultImportConfiguration()
	v.SetDefault("import.encoding", string(d.Encoding))
	v.SetDefault("import.separator", string(d.Separator))
	v.SetDefault("import.quote_char", string(d.QuoteChar))
	v.SetDefault("import.has_header", d.HasHeader)
	v.SetDefault("import.date_format", string(d.DateFormat))
	v.SetDefault("import.decimal_separator", string(d.DecimalSeparator))
	v.SetDefault("import.thousands_separator", string(d.ThousandsSeparator))
	v.SetDefault("import.on_error", string(d.OnError))
	v.SetDefault("import.create_partner", d.CreatePartner)
	v.SetDefault("import.sheet", "")

	// Ledger defaults
	v.SetDefault("ledger.directory", "")
	v.SetDefault("ledger.journal", "BANK")
	v.SetDefault("ledger.delimiter", ",")

	// Report defaults
	v.SetDefault("report.format", "text")
	v.SetDefault("report.show_records", true)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if _, err := config.ImportConfiguration(); err != nil {
		return err
	}

	if len([]rune(config.Ledger.Delimiter)) != 1 {
		return fmt.Errorf("ledger delimiter must be a single character, got: %s", config.Ledger.Delimiter)
	}
	if strings.TrimSpace(config.Ledger.Journal) == "" {
		return fmt.Errorf("ledger.journal must not be empty")
	}

	switch config.Report.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid report format: %s (must be 'text', 'json' or 'yaml')", config.Report.Format)
	}

	return nil
}

// Validate checks the configuration after it was changed, for example by
// command line flags.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// ImportConfiguration converts the import section into typed options.
// Option values are matched case-insensitively.
func (c *Config) ImportConfiguration() (models.ImportConfiguration, error) {
	quote, err := models.ParseQuoteChar(c.Import.QuoteChar)
	if err != nil {
		return models.ImportConfiguration{}, err
	}
	dateFormat, err := models.ParseDateFormat(c.Import.DateFormat)
	if err != nil {
		return models.ImportConfiguration{}, err
	}

	cfg := models.ImportConfiguration{
		Encoding:           models.Encoding(normalize(c.Import.Encoding)),
		Separator:          models.Separator(normalize(c.Import.Separator)),
		QuoteChar:          quote,
		HasHeader:          c.Import.HasHeader,
		DateFormat:         dateFormat,
		DecimalSeparator:   models.DecimalSeparator(normalize(c.Import.DecimalSeparator)),
		ThousandsSeparator: models.ThousandsSeparator(normalize(c.Import.ThousandsSeparator)),
		OnError:            models.ErrorPolicy(normalize(c.Import.OnError)),
		CreatePartner:      c.Import.CreatePartner,
		Sheet:              c.Import.Sheet,
	}
	if err := cfg.Validate(); err != nil {
		return models.ImportConfiguration{}, err
	}
	return cfg, nil
}

// LedgerDirectory returns the configured ledger directory, or the default one
// under the user's home directory.
func (c *Config) LedgerDirectory() string {
	if c.Ledger.Directory != "" {
		return c.Ledger.Directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".stmt-import", "ledger")
	}
	return filepath.Join(home, ".stmt-import", "ledger")
}

// LedgerDelimiter returns the statement file delimiter as a rune.
func (c *Config) LedgerDelimiter() rune {
	r := []rune(c.Ledger.Delimiter)
	if len(r) != 1 {
		return ','
	}
	return r[0]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
