package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// HolidayRule configures an extra clinic closure beyond the built-in federal
// holiday set. Either a fixed month/day or a floating nth-weekday rule.
type HolidayRule struct {
	Name    string `yaml:"name" validate:"required"`
	Month   int    `yaml:"month" validate:"required,min=1,max=12"`
	Day     int    `yaml:"day,omitempty" validate:"omitempty,min=1,max=31"`
	Weekday string `yaml:"weekday,omitempty"`
	// Nth selects the nth weekday of the month; -1 means the last one.
	Nth int `yaml:"nth,omitempty" validate:"omitempty,min=-1,max=5"`
}

// Config represents the application configuration
type Config struct {
	Locations       []string `yaml:"locations" validate:"required,min=1,dive,required"`
	DefaultLocation string   `yaml:"defaultLocation" validate:"required"`
	ProviderSheet   string   `yaml:"providerSheet,omitempty"`
	// SaturdayWanterThreshold is the monthly Saturday quota at which a
	// provider is prioritized for Saturday coverage. Zero means the default.
	SaturdayWanterThreshold int           `yaml:"saturdayWanterThreshold,omitempty" validate:"omitempty,min=1"`
	ExtraHolidays           []HolidayRule `yaml:"extraHolidays,omitempty" validate:"dive"`
	LogFile                 string        `yaml:"logFile,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Locations:       []string{"Central", "Edmonds"},
		DefaultLocation: "Central",
		ProviderSheet:   "Providers",
	}
}

// Load loads and validates the configuration from chc_scheduler_config.yaml
// It looks for the config file in the current directory first, then in the
// user's home directory. A missing file yields the default configuration.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return Default(), nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and its cross-field rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	found := false
	for _, loc := range cfg.Locations {
		if loc == cfg.DefaultLocation {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("defaultLocation %q is not in locations", cfg.DefaultLocation)
	}

	for i, rule := range cfg.ExtraHolidays {
		fixed := rule.Day > 0
		floating := rule.Weekday != "" || rule.Nth != 0
		if fixed == floating {
			return fmt.Errorf("extraHolidays[%d] (%s): set either day or weekday+nth", i, rule.Name)
		}
		if floating && (rule.Weekday == "" || rule.Nth == 0) {
			return fmt.Errorf("extraHolidays[%d] (%s): floating rules need both weekday and nth", i, rule.Name)
		}
	}

	return nil
}

// findConfigFile searches for chc_scheduler_config.yaml in the current
// directory and home directory.
func findConfigFile() (string, error) {
	configFileName := "chc_scheduler_config.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
