// Package config handles EstateFlow configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Server
	Server ServerConfig `json:"server"`

	// Services
	Chat ChatConfig `json:"chat"`

	// Matching
	Matching MatchingConfig `json:"matching"`

	// Features
	Features FeatureConfig `json:"features"`
}

// ServerConfig for HTTP server
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// ChatConfig for the chat-completion service
type ChatConfig struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

// MatchingConfig tunes the agent matcher weights
type MatchingConfig struct {
	AreaWeight     float64 `json:"area_weight"`
	LocationWeight float64 `json:"location_weight"`
	TypeWeight     float64 `json:"type_weight"`
}

// FeatureConfig for feature flags
type FeatureConfig struct {
	EnableChat     bool `json:"enable_chat"`
	EnableLiveFeed bool `json:"enable_live_feed"`
	DebugMode      bool `json:"debug_mode"`
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir: filepath.Join(home, ".estateflow"),
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Chat: ChatConfig{
			BaseURL: "https://api.openai.com/v1",
			APIKey:  os.Getenv("ESTATEFLOW_CHAT_API_KEY"),
			Model:   "gpt-4o-mini",
		},
		Matching: MatchingConfig{
			AreaWeight:     15,
			LocationWeight: 10,
			TypeWeight:     8,
		},
		Features: FeatureConfig{
			EnableChat:     true,
			EnableLiveFeed: true,
			DebugMode:      false,
		},
	}
}

// Load loads config from file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Override API key from env if set
	if apiKey := os.Getenv("ESTATEFLOW_CHAT_API_KEY"); apiKey != "" {
		cfg.Chat.APIKey = apiKey
	}

	return cfg, nil
}

// Save saves config to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Don't save API key to file
	safeCfg := *c
	safeCfg.Chat.APIKey = ""

	data, err := json.MarshalIndent(safeCfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
