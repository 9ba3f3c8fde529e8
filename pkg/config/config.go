package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Graph  GraphConfig  `mapstructure:"graph"`
	Viz    VizConfig    `mapstructure:"viz"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// GraphConfig locates the graph data on disk.
type GraphConfig struct {
	// DataFile is the tabular award export consumed by build.
	DataFile string `mapstructure:"data_file"`
	// SnapshotFile is the GraphML snapshot written by build and loaded
	// by the server.
	SnapshotFile string `mapstructure:"snapshot_file"`
	// StatsFile receives the graph summary JSON written after build.
	StatsFile string `mapstructure:"stats_file"`
}

// VizConfig controls visualization output.
type VizConfig struct {
	// OutputDir receives generated HTML artifacts, served statically.
	OutputDir string `mapstructure:"output_dir"`
}

// LLMConfig holds the chat agent configuration.
type LLMConfig struct {
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// CacheConfig holds the aggregate-response cache configuration.
type CacheConfig struct {
	// Dir is the badger directory; empty selects an in-memory cache.
	Dir string `mapstructure:"dir"`
	// TTLSeconds bounds how stale a cached aggregate may be.
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// Load reads configuration from viper defaults, any bound config file,
// and environment overrides.
func Load() (*Config, error) {
	setDefaults()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	overrideWithEnv(cfg)
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("log.level", "info")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("graph.data_file", "awards.csv")
	viper.SetDefault("graph.snapshot_file", "award_graph.graphml")
	viper.SetDefault("graph.stats_file", "graph_statistics.json")

	viper.SetDefault("viz.output_dir", "static")

	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.max_tokens", 4096)

	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.ttl_seconds", 300)
}

func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		cfg.LLM.BaseURL = base
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if snapshot := os.Getenv("AWARDGRAPH_SNAPSHOT"); snapshot != "" {
		cfg.Graph.SnapshotFile = snapshot
	}
}
