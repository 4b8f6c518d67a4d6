package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Kbnch7/quizlet/internal/validation"
	"github.com/spf13/viper"
)

type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Learn     LearnConfig     `mapstructure:"learn"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
}

type APIConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
	// RetryAttempts applies to GET requests only
	RetryAttempts uint `mapstructure:"retry_attempts"`
}

func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type AuthConfig struct {
	TokenFile string `mapstructure:"token_file" validate:"required"`
}

type LearnConfig struct {
	NextCardDelayMilliseconds int `mapstructure:"next_card_delay_ms" validate:"gte=0"`
}

func (c LearnConfig) NextCardDelay() time.Duration {
	return time.Duration(c.NextCardDelayMilliseconds) * time.Millisecond
}

type TemplatesConfig struct {
	DeckTemplate string `mapstructure:"deck_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	DeckDirectory string `mapstructure:"deck_directory"`
}

type ConfigLoader struct {
	viper     *viper.Viper
	validator *validation.Validator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, err := validation.New("mapstructure")
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ruzlet")
	}

	return &ConfigLoader{
		viper:     v,
		validator: validate,
	}, nil
}

// DefaultTokenFile is where the authorization is kept unless configured otherwise.
func DefaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ruzlet", "authorization.json")
	}
	return filepath.Join(home, ".config", "ruzlet", "authorization.json")
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("api.retry_attempts", 2)
	v.SetDefault("auth.token_file", DefaultTokenFile())
	v.SetDefault("learn.next_card_delay_ms", 1000)
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("templates.deck_template", "")
	v.SetDefault("outputs.deck_directory", filepath.Join("outputs", "decks"))

	if err := v.BindEnv("api.base_url", "RUZLET_API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind RUZLET_API_URL environment variable: %w", err)
	}
	if err := v.BindEnv("auth.token_file", "RUZLET_TOKEN_FILE"); err != nil {
		return nil, fmt.Errorf("failed to bind RUZLET_TOKEN_FILE environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
