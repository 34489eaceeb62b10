package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ClientConfig configures the command-line client.
type ClientConfig struct {
	BaseURL     string        `mapstructure:"DOCUCHAT_BASE_URL"`
	SessionFile string        `mapstructure:"DOCUCHAT_SESSION_FILE"`
	Timeout     time.Duration `mapstructure:"DOCUCHAT_TIMEOUT"`
	LogLevel    string        `mapstructure:"DOCUCHAT_LOG_LEVEL"`
}

// clientFlags maps command-line flag names to their settings.
var clientFlags = map[string]string{
	"base-url":     "DOCUCHAT_BASE_URL",
	"session-file": "DOCUCHAT_SESSION_FILE",
	"timeout":      "DOCUCHAT_TIMEOUT",
	"log-level":    "DOCUCHAT_LOG_LEVEL",
}

// RegisterClientFlags adds the client's flags to fs. Values left unset fall back to the
// environment, then .env, then defaults.
func RegisterClientFlags(fs *pflag.FlagSet) {
	fs.String("base-url", "", "backend root URL (DOCUCHAT_BASE_URL)")
	fs.String("session-file", "", "file holding the session token (DOCUCHAT_SESSION_FILE)")
	fs.Duration("timeout", 0, "per-request timeout, 0 waits indefinitely (DOCUCHAT_TIMEOUT)")
	fs.String("log-level", "", "debug, info, warn or error (DOCUCHAT_LOG_LEVEL)")
}

// LoadClient reads client settings from flags, the environment, and an optional .env file in
// the working directory, in that order of precedence. flags may be nil. A zero Timeout means
// requests wait indefinitely.
func LoadClient(flags *pflag.FlagSet) (*ClientConfig, error) {
	v := viper.New()
	v.SetDefault("DOCUCHAT_BASE_URL", "http://localhost:8080")
	v.SetDefault("DOCUCHAT_SESSION_FILE", defaultSessionFile())
	v.SetDefault("DOCUCHAT_TIMEOUT", "0s")
	v.SetDefault("DOCUCHAT_LOG_LEVEL", "warn")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range clientFlags {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docuchat", "session-id")
}
