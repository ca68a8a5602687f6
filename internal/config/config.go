package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Acceptance gate for uploads.
	MinRowCount int `mapstructure:"min_row_count" yaml:"min_row_count"`

	// HTTP API
	ServerAddr     string   `mapstructure:"server_addr" yaml:"server_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	SessionTTLMin  int      `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Loading and coercion
	MaxRows            int    `mapstructure:"max_rows" yaml:"max_rows"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	OutputDir          string `mapstructure:"output_dir" yaml:"output_dir"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Global {
	return &Global{
		MinRowCount:    50,
		ServerAddr:     ":8080",
		AllowedOrigins: []string{"*"},
		MaxUploadMB:    100,
		SessionTTLMin:  60,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".salesloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.salesloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is read into the environment first.
func Load(cfgFile string) (*Global, error) {
	// missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SALESLOOM")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("min_row_count", d.MinRowCount)
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("session_ttl_min", d.SessionTTLMin)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("max_rows", 0)
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("output_dir", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.MinRowCount < 0 {
		return nil, fmt.Errorf("min_row_count must be >= 0 (got %d)", c.MinRowCount)
	}
	return &c, nil
}
