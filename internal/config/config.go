package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultVersion = "claude3_5-sonnet"

type Config struct {
	DefaultVersion string        `mapstructure:"default_version" validate:"required"`
	OpenAI         OpenAIConfig  `mapstructure:"openai"`
	Bedrock        BedrockConfig `mapstructure:"bedrock"`
	Log            LogConfig     `mapstructure:"log"`
	Tracing        TracingConfig `mapstructure:"tracing"`
}

type OpenAIConfig struct {
	// APIKey may be empty here; the GPT adapter reports it when selected.
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type BedrockConfig struct {
	Region      string        `mapstructure:"region" validate:"required"`
	Profile     string        `mapstructure:"profile"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=1"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig reads configuration from an optional file, the process
// environment and a .env file in the working directory. An explicit path
// must exist; otherwise a missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("llmprompt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "llmprompt"))
		}
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// openai.api_key already maps to OPENAI_API_KEY through the replacer,
	// bound explicitly so Unmarshal sees it without a default.
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("bedrock.region", "BEDROCK_REGION", "AWS_REGION")
	_ = v.BindEnv("bedrock.profile", "BEDROCK_PROFILE", "AWS_PROFILE")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_version", DefaultVersion)
	v.SetDefault("openai.base_url", "https://api.openai.com/v1/")
	v.SetDefault("openai.timeout", 60*time.Second)
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.temperature", 0.5)
	v.SetDefault("bedrock.timeout", 120*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("tracing.enabled", false)
}
