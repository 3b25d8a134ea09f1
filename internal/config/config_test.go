package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != "127.0.0.1:8090" {
		t.Errorf("expected default server addr '127.0.0.1:8090', got %q", cfg.Server.Addr)
	}

	if cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to default to false")
	}

	if cfg.Storage.DBPath != "" {
		t.Errorf("expected empty db_path default, got %q", cfg.Storage.DBPath)
	}

	if cfg.Agents.File != "" {
		t.Errorf("expected empty agents file default, got %q", cfg.Agents.File)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-5-20250929
  max_tokens: 4096
  use_bedrock: true
  aws_region: us-west-2
server:
  addr: 0.0.0.0:9999
storage:
  db_path: /tmp/forge.db
agents:
  file: ./agents.yaml
debug:
  log_path: /tmp/forge.log
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("expected model override, got %q", cfg.Anthropic.Model)
	}
	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("expected max_tokens 4096, got %d", cfg.Anthropic.MaxTokens)
	}
	if !cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to be true")
	}
	if cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("expected aws_region 'us-west-2', got %q", cfg.Anthropic.AWSRegion)
	}
	if cfg.Server.Addr != "0.0.0.0:9999" {
		t.Errorf("expected server addr '0.0.0.0:9999', got %q", cfg.Server.Addr)
	}
	if cfg.Storage.DBPath != "/tmp/forge.db" {
		t.Errorf("expected db_path '/tmp/forge.db', got %q", cfg.Storage.DBPath)
	}
	if cfg.Agents.File != "./agents.yaml" {
		t.Errorf("expected agents file './agents.yaml', got %q", cfg.Agents.File)
	}
	if cfg.Debug.LogPath != "/tmp/forge.log" {
		t.Errorf("expected debug log_path '/tmp/forge.log', got %q", cfg.Debug.LogPath)
	}
}

func TestLoadFromPath_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("anthropic:\n  api_key: k\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:8090" {
		t.Errorf("expected default server addr, got %q", cfg.Server.Addr)
	}
}

func TestLoad_ProjectOverride(t *testing.T) {
	// Isolate from the developer's real config and key.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")

	projectDir := t.TempDir()
	projectConfig := `
server:
  addr: 127.0.0.1:7777
`
	if err := os.WriteFile(filepath.Join(projectDir, ".appforge.yaml"), []byte(projectConfig), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}

	// Load resolves the project file by walking up from the working
	// directory.
	t.Chdir(projectDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7777" {
		t.Errorf("expected project addr override, got %q", cfg.Server.Addr)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	userDir := filepath.Join(xdg, "appforge")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	userConfig := "anthropic:\n  api_key: file-key\n  model: file-model\n"
	if err := os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte(userConfig), 0644); err != nil {
		t.Fatalf("failed to write user config: %v", err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("APPFORGE_MODEL", "env-model")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Anthropic.APIKey != "env-key" {
		t.Errorf("expected env api_key to win, got %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "env-model" {
		t.Errorf("expected env model to win, got %q", cfg.Anthropic.Model)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "expanded-value")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	dir := getUserConfigDir()
	expected := "/custom/config/appforge"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestFindProjectConfig_WalksParents(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".appforge.yaml"), []byte("{}\n"), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dirs: %v", err)
	}

	t.Chdir(nested)

	got := findProjectConfig()
	want := filepath.Join(root, ".appforge.yaml")
	// Resolve symlinks; macOS temp dirs live behind /private.
	if gotReal, err := filepath.EvalSymlinks(got); err == nil {
		got = gotReal
	}
	if wantReal, err := filepath.EvalSymlinks(want); err == nil {
		want = wantReal
	}
	if got != want {
		t.Errorf("findProjectConfig() = %q, want %q", got, want)
	}
}
