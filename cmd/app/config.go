package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Environment    string        `mapstructure:"ENVIRONMENT"`
	Version        string        `mapstructure:"VERSION"`
	TrustedOrigins []string      `mapstructure:"TRUSTED_ORIGINS"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	Migrate        bool          `mapstructure:"MIGRATE"`
	Secret         string        `mapstructure:"SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`

	PasswordMinLength int `mapstructure:"PASSWORD_MIN_LENGTH"`

	Limiter struct {
		Enabled bool    `mapstructure:"LIMITER_ENABLED"`
		RPS     float64 `mapstructure:"LIMITER_RPS"`
		Burst   int     `mapstructure:"LIMITER_BURST"`
	} `mapstructure:",squash"`

	RabbitMQ struct {
		URL string `mapstructure:"RABBITMQ_URL"`
	} `mapstructure:",squash"`

	Mail struct {
		Host      string `mapstructure:"MAIL_HOST"`
		Port      int    `mapstructure:"MAIL_PORT"`
		User      string `mapstructure:"MAIL_USER"`
		Password  string `mapstructure:"MAIL_PASSWORD"`
		Sender    string `mapstructure:"MAIL_SENDER"`
		Recipient string `mapstructure:"MAIL_RECIPIENT"`
	} `mapstructure:",squash"`
}

// every key needs a default, otherwise viper does not pick it up from the environment on Unmarshal
var configDefaults = map[string]any{
	"PORT":                ":3003",
	"ENVIRONMENT":         "development",
	"VERSION":             "1.0.0",
	"TRUSTED_ORIGINS":     "*",
	"DATABASE_URL":        "",
	"MIGRATE":             true,
	"SECRET":              "",
	"TOKEN_TTL":           time.Hour,
	"PASSWORD_MIN_LENGTH": 3,
	"LIMITER_ENABLED":     true,
	"LIMITER_RPS":         20.0,
	"LIMITER_BURST":       40,
	"RABBITMQ_URL":        "",
	"MAIL_HOST":           "",
	"MAIL_PORT":           587,
	"MAIL_USER":           "",
	"MAIL_PASSWORD":       "",
	"MAIL_SENDER":         "Bloglist <no-reply@bloglist.local>",
	"MAIL_RECIPIENT":      "",
}

// loadConfig reads the optional env file at path and overlays the process environment on top of it.
func loadConfig(path string) (*Config, error) {
	v := viper.New()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL must be set"))
	}

	if c.Secret == "" {
		errs = append(errs, errors.New("SECRET must be set"))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	return errors.Join(errs...)
}
