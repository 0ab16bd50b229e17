// Package config loads process-level configuration: where the database
// lives, logging, and the HTTP server. Per-user habit preferences are
// stored in the database settings table instead.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// ServerConfig configures `habitgrid serve`.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr" toml:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" toml:"cors_origins"`
}

// Config holds runtime configuration. Values come from config.toml,
// HABITGRID_* env vars, and finally CLI flags.
type Config struct {
	Database string       `mapstructure:"database" toml:"database"`
	Debug    bool         `mapstructure:"debug" toml:"debug"`
	LogDir   string       `mapstructure:"log_dir" toml:"log_dir"`
	Server   ServerConfig `mapstructure:"server" toml:"server"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: constants.DefaultConfigPath,
		Debug:    false,
		LogDir:   constants.DefaultConfigDir + "/logs",
		Server: ServerConfig{
			Addr:        "127.0.0.1:8420",
			CORSOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
	}
}

// DefaultPath is where config.toml is looked up when no path is given.
func DefaultPath() string {
	return filepath.Join(utils.ExpandPath(constants.DefaultConfigDir), constants.ConfigFileName)
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("database", d.Database)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_dir", d.LogDir)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path (DefaultPath when empty). A missing
// file is not an error; defaults and environment still apply.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := newViper()
	v.SetConfigFile(utils.ExpandPath(path))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			if explicit {
				return Config{}, fmt.Errorf("config file not found: %s", path)
			}
		default:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Database = utils.ExpandPath(cfg.Database)
	cfg.LogDir = utils.ExpandPath(cfg.LogDir)
	return cfg, nil
}

// WriteDefault renders the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	path = utils.ExpandPath(path)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Render encodes cfg as TOML, as shown by `habitgrid config show`.
func Render(cfg Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
