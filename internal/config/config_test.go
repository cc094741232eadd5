package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host = %q, want localhost", cfg.Server.Host)
	}
	if cfg.Matching.AreaWeight != 15 || cfg.Matching.LocationWeight != 10 || cfg.Matching.TypeWeight != 8 {
		t.Errorf("Matching weights = %+v, want 15/10/8", cfg.Matching)
	}
	if !cfg.Features.EnableChat {
		t.Error("Features.EnableChat should be true by default")
	}
	if !cfg.Features.EnableLiveFeed {
		t.Error("Features.EnableLiveFeed should be true by default")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"server": {"port": 9090, "host": "0.0.0.0"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Matching.AreaWeight != 15 {
		t.Errorf("unset sections should keep defaults, AreaWeight = %v", cfg.Matching.AreaWeight)
	}
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv("ESTATEFLOW_CHAT_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"chat": {"api_key": "file-key"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.APIKey != "env-key" {
		t.Errorf("Chat.APIKey = %q, want env override", cfg.Chat.APIKey)
	}
}

func TestSave_OmitsAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Chat.APIKey = "secret"
	cfg.Server.Port = 9999

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}

	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decode saved config: %v", err)
	}
	if saved.Chat.APIKey != "" {
		t.Error("saved config must not carry the API key")
	}
	if saved.Server.Port != 9999 {
		t.Errorf("saved Server.Port = %d, want 9999", saved.Server.Port)
	}
}
