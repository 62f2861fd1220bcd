// Package config loads the engine configuration from .cody/config.json.
// Every knob has a default; a missing file yields a fully usable config.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the complete engine configuration.
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Ranking  RankingConfig  `json:"ranking" mapstructure:"ranking"`
	Coalesce CoalesceConfig `json:"coalesce" mapstructure:"coalesce"`
	Remote   RemoteConfig   `json:"remote" mapstructure:"remote"`
	Symbols  SymbolsConfig  `json:"symbols" mapstructure:"symbols"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// RankingConfig bounds local candidate lists.
type RankingConfig struct {
	// FileLimit caps how many ranked files survive truncation.
	FileLimit int `json:"fileLimit" mapstructure:"fileLimit"`
	// SymbolLimit caps how many ranked symbols survive truncation.
	SymbolLimit int `json:"symbolLimit" mapstructure:"symbolLimit"`
}

// CoalesceConfig sets the request-coalescing windows.
type CoalesceConfig struct {
	// ThrottleWindowMs is the sharing window for workspace file sweeps.
	ThrottleWindowMs int `json:"throttleWindowMs" mapstructure:"throttleWindowMs"`
	// DebounceWindowMs is the settle window for remote searches.
	DebounceWindowMs int `json:"debounceWindowMs" mapstructure:"debounceWindowMs"`
}

// RemoteConfig configures the remote backend integration.
type RemoteConfig struct {
	// ServersFile points at the servers.toml declaration, relative to the
	// repo root unless absolute.
	ServersFile string `json:"serversFile" mapstructure:"serversFile"`
	// Repositories are the remote repository names to search.
	Repositories []string `json:"repositories" mapstructure:"repositories"`
	// SearchLimit caps hits per remote search.
	SearchLimit int `json:"searchLimit" mapstructure:"searchLimit"`
	// CacheResults toggles the persistent result cache.
	CacheResults bool `json:"cacheResults" mapstructure:"cacheResults"`
}

// SymbolsConfig configures the local symbol source.
type SymbolsConfig struct {
	// IndexPath points at a SCIP index, relative to the repo root unless
	// absolute. Empty disables local symbol search.
	IndexPath string `json:"indexPath" mapstructure:"indexPath"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Ranking: RankingConfig{
			FileLimit:   20,
			SymbolLimit: 20,
		},
		Coalesce: CoalesceConfig{
			ThrottleWindowMs: 10000,
			DebounceWindowMs: 300,
		},
		Remote: RemoteConfig{
			ServersFile:  filepath.Join(".cody", "servers.toml"),
			SearchLimit:  50,
			CacheResults: true,
		},
		Symbols: SymbolsConfig{
			IndexPath: "index.scip",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <repoRoot>/.cody/config.json, falling
// back to defaults field by field.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("repoRoot", repoRoot)
	v.SetDefault("ranking.fileLimit", defaults.Ranking.FileLimit)
	v.SetDefault("ranking.symbolLimit", defaults.Ranking.SymbolLimit)
	v.SetDefault("coalesce.throttleWindowMs", defaults.Coalesce.ThrottleWindowMs)
	v.SetDefault("coalesce.debounceWindowMs", defaults.Coalesce.DebounceWindowMs)
	v.SetDefault("remote.serversFile", defaults.Remote.ServersFile)
	v.SetDefault("remote.searchLimit", defaults.Remote.SearchLimit)
	v.SetDefault("remote.cacheResults", defaults.Remote.CacheResults)
	v.SetDefault("symbols.indexPath", defaults.Symbols.IndexPath)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".cody"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.RepoRoot == "" {
		cfg.RepoRoot = repoRoot
	}
	return &cfg, nil
}

// Save writes the configuration to <repoRoot>/.cody/config.json.
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".cody")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// ResolvePath turns a config-relative path into an absolute one.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.RepoRoot, path)
}
