package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cmaptree/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfigMissing(t *testing.T) {
	cfg, err := readConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, `
[convert]
format = "opml,svg"
workers = 4
max_nodes = -1
owner = "Ada Lovelace"

[cache]
disable = true
`)
	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}

	if cfg.Convert.Format != "opml,svg" || cfg.Convert.Workers != 4 || cfg.Convert.Owner != "Ada Lovelace" {
		t.Errorf("Convert = %+v", cfg.Convert)
	}
	if cfg.Convert.MaxNodes != -1 {
		t.Errorf("MaxNodes = %d, want -1", cfg.Convert.MaxNodes)
	}
	if cfg.Convert.MaxDepth != pipeline.DefaultMaxDepth {
		t.Errorf("unset MaxDepth = %d, want default", cfg.Convert.MaxDepth)
	}
	if !cfg.Cache.Disable {
		t.Error("Cache.Disable not decoded")
	}
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[convert\nformat = 1", "read config"},
		{"unknown key", "[convert]\nfromat = \"svg\"\n", "convert.fromat"},
		{"bad format", "[convert]\nformat = \"pdf\"\n", "invalid format"},
		{"negative workers", "[convert]\nworkers = -2\n", "workers"},
		{"negative depth", "[convert]\nmax_depth = -1\n", "max_depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigExplicitPathMustExist(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "absent.toml")
	if err := c.loadConfig(); err == nil {
		t.Error("expected error for missing --config file")
	}
}

func TestLoadConfigXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, appName, configFileName)
	if err := os.WriteFile(path, []byte("[convert]\ndetailed = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !c.Config.Convert.Detailed {
		t.Error("config from XDG_CONFIG_HOME not loaded")
	}
}
