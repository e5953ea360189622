package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Yates-Labs/gitmine/internal/gitlog"
)

const (
	// EnvPrefix prefixes every environment variable read by gitmine
	EnvPrefix = "GITMINE"

	KeyIncludeMerges = "include_merges"
	KeyFormat        = "format"
	KeyLogLevel      = "log_level"
)

// Config holds the settings for a gitmine run
type Config struct {
	IncludeMerges bool   `mapstructure:"include_merges"`
	Format        string `mapstructure:"format"`
	LogLevel      string `mapstructure:"log_level"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		IncludeMerges: gitlog.DefaultConfig().IncludeMergeFileChanges,
		Format:        "table",
		LogLevel:      "warn",
	}
}

// MineConfig returns the miner settings carried by c
func (c *Config) MineConfig() gitlog.Config {
	return gitlog.Config{IncludeMergeFileChanges: c.IncludeMerges}
}

// New builds a viper instance with defaults, environment binding and the
// config file search path. path overrides the search when set.
func New(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault(KeyIncludeMerges, cfg.IncludeMerges)
	v.SetDefault(KeyFormat, cfg.Format)
	v.SetDefault(KeyLogLevel, cfg.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".gitmine")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	return v
}

// Load reads .env files, the config file (if any) and the environment into
// a Config. Flags bound to v before calling Load take precedence.
func Load(v *viper.Viper) (*Config, error) {
	loadEnvFiles()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence. Variables already
// set in the environment are never overwritten.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}
