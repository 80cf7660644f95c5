// Package config resolves linkpop settings from .env, the environment and
// command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	StoreKeyring = "keyring"
	StoreFile    = "file"
	StoreMemory  = "memory"
)

// Config is the resolved configuration.
type Config struct {
	BaseURL     string        `env:"LINKPOP_BASE_URL" envDefault:"http://localhost:5000" validate:"required,url"`
	LogLevel    string        `env:"LINKPOP_LOG_LEVEL" envDefault:"error" validate:"loglevel"`
	Timeout     time.Duration `env:"LINKPOP_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	Store       string        `env:"LINKPOP_SESSION_STORE" envDefault:"keyring" validate:"oneof=keyring file memory"`
	SessionFile string        `env:"LINKPOP_SESSION_FILE"`
	Debug       bool          `env:"LINKPOP_DEBUG"`
}

type loadOptions struct {
	dotenvFiles []string
	flags       *pflag.FlagSet
}

type LoadOption func(*loadOptions)

// WithDotenv loads the named files instead of ./.env. Missing files are skipped.
func WithDotenv(files ...string) LoadOption {
	return func(o *loadOptions) {
		o.dotenvFiles = files
	}
}

// WithFlags overlays flags registered by BindFlags that the user set explicitly.
func WithFlags(fs *pflag.FlagSet) LoadOption {
	return func(o *loadOptions) {
		o.flags = fs
	}
}

// BindFlags registers the persistent flags that can override configuration.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("base-url", "", "Backend base URL (env LINKPOP_BASE_URL)")
	fs.String("log-level", "", "Diagnostic log level: debug, info, warn, error (env LINKPOP_LOG_LEVEL)")
	fs.Duration("timeout", 0, "Per-request timeout (env LINKPOP_TIMEOUT)")
	fs.String("session-store", "", "Where to keep the session: keyring, file, memory (env LINKPOP_SESSION_STORE)")
	fs.Bool("debug", false, "Print debug diagnostics")
}

// Load resolves the configuration and validates it.
func Load(opts ...LoadOption) (Config, error) {
	o := &loadOptions{dotenvFiles: []string{".env"}}
	for _, opt := range opts {
		opt(o)
	}

	// godotenv never overrides variables that are already set.
	for _, f := range o.dotenvFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if o.flags != nil {
		if err := applyFlags(&cfg, o.flags); err != nil {
			return Config{}, err
		}
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("base-url") {
		v, err := fs.GetString("base-url")
		if err != nil {
			return err
		}
		cfg.BaseURL = v
	}
	if fs.Changed("log-level") {
		v, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = v
	}
	if fs.Changed("timeout") {
		v, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = v
	}
	if fs.Changed("session-store") {
		v, err := fs.GetString("session-store")
		if err != nil {
			return err
		}
		cfg.Store = v
	}
	if fs.Changed("debug") {
		v, err := fs.GetBool("debug")
		if err != nil {
			return err
		}
		cfg.Debug = v
	}
	return nil
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func validate(cfg Config) error {
	v := validator.New()
	if err := v.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
