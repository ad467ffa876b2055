// Package config loads plugload settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	configData Config
	v          *viper.Viper
)

// Config holds all configuration settings.
type Config struct {
	// Plugin discovery
	Plugins Plugins `mapstructure:"plugins"`
	// Merged-configuration cache
	Cache Cache `mapstructure:"cache"`
	// Logging configuration
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// Plugins configures where plugins live.
type Plugins struct {
	Path     string `mapstructure:"path"`
	EntryExt string `mapstructure:"entry_ext"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Driver     string        `mapstructure:"driver"`
	Dir        string        `mapstructure:"dir"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
	RedisURL   string        `mapstructure:"redis_url"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	S3         S3            `mapstructure:"s3"`
}

// S3 configures the S3 cache backend.
type S3 struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

const defaultConfig = `# plugload configuration file
plugins:
  path: plugins
  entry_ext: .wasm

cache:
  driver: file
  dir: cache/plugins

log:
  level: info
  format: human
`

// Initialize sets up the global configuration used by the CLI. cfgFile, when
// not empty, names the config file explicitly.
func Initialize(cfgFile string) error {
	v = viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")           // name of config file (without extension)
		v.SetConfigType("yaml")             // config file type
		v.AddConfigPath(".")                // optionally look for config in working directory
		v.AddConfigPath("$HOME/.plugload")  // look for config in .plugload directory in home
		v.AddConfigPath("/etc/plugload/")   // path to look for the config file in

		// Create config file if it doesn't exist
		if err := ensureConfig(); err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
	}

	cfg, err := load(v)
	if err != nil {
		return err
	}
	configData = *cfg

	return nil
}

// Load reads configuration from path (optional) plus PLUGLOAD_* environment
// variables into a fresh Config without touching global state.
func Load(path string) (*Config, error) {
	nv := viper.New()
	if path != "" {
		nv.SetConfigFile(path)
	}

	return load(nv)
}

func load(vp *viper.Viper) (*Config, error) {
	setDefaults(vp)

	// Environment variables
	vp.SetEnvPrefix("PLUGLOAD") // prefix for env vars
	vp.AutomaticEnv()           // read in environment variables that match
	vp.SetEnvKeyReplacer(       // replace dots with underscores in env vars
		strings.NewReplacer(".", "_"),
	)

	if err := vp.ReadInConfig(); err != nil {
		// It's okay if we can't find a config file, we'll use defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && vp.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := vp.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(vp *viper.Viper) {
	// Plugin defaults
	vp.SetDefault("plugins.path", "plugins")
	vp.SetDefault("plugins.entry_ext", ".wasm")

	// Cache defaults
	vp.SetDefault("cache.driver", "file")
	vp.SetDefault("cache.dir", filepath.Join("cache", "plugins"))
	vp.SetDefault("cache.ttl", time.Duration(0))
	vp.SetDefault("cache.max_entries", 128)
	vp.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	vp.SetDefault("cache.sqlite_path", filepath.Join("cache", "plugins.db"))
	vp.SetDefault("cache.s3.bucket", "")
	vp.SetDefault("cache.s3.prefix", "plugload/")
	vp.SetDefault("cache.s3.region", "us-east-1")
	vp.SetDefault("cache.s3.endpoint", "")
	vp.SetDefault("cache.s3.access_key", "")
	vp.SetDefault("cache.s3.secret_key", "")

	// Logging defaults
	vp.SetDefault("log.level", "info")
	vp.SetDefault("log.format", "human")
}

// ensureConfig creates a default config file if none exists.
func ensureConfig() error {
	home := os.Getenv("HOME")
	if home == "" {
		return nil
	}

	dir := filepath.Join(home, ".plugload")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := os.WriteFile(configFile, []byte(defaultConfig), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the current configuration.
func Get() *Config {
	return &configData
}

// GetViper returns the viper instance.
func GetViper() *viper.Viper {
	return v
}
