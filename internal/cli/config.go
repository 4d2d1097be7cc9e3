package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cmaptree/pkg/pipeline"
)

// Config holds user-level defaults loaded from
// $XDG_CONFIG_HOME/cmaptree/config.toml:
//
//	[convert]
//	format = "opml,svg"
//	workers = 4
//	max_depth = 0
//	max_nodes = 50000
//	detailed = false
//	owner = "Jane Doe"
//
//	[cache]
//	disable = false
//	dir = "/tmp/cmaptree-cache"
//	redis_addr = "localhost:6379" # share outlines through Redis instead
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	Cache   CacheConfig   `toml:"cache"`
}

// ConvertConfig holds defaults for the convert command.
type ConvertConfig struct {
	Format   string `toml:"format"`
	Workers  int    `toml:"workers"`
	MaxDepth int    `toml:"max_depth"`
	MaxNodes int    `toml:"max_nodes"`
	Detailed bool   `toml:"detailed"`
	Owner    string `toml:"owner"` // written as the OPML ownerName
}

// CacheConfig configures the outline cache.
type CacheConfig struct {
	Disable   bool   `toml:"disable"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Convert: ConvertConfig{
			Format:   pipeline.DefaultFormat,
			MaxDepth: pipeline.DefaultMaxDepth,
			MaxNodes: pipeline.DefaultMaxNodes,
		},
	}
}

// readConfig decodes the TOML file at path over the defaults. A missing
// file yields the defaults; unknown keys are rejected so typos surface.
func readConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.Convert.Format != "" {
		if _, err := pipeline.ParseFormats(cfg.Convert.Format); err != nil {
			return err
		}
	}
	if cfg.Convert.Workers < 0 {
		return fmt.Errorf("convert.workers must not be negative")
	}
	if cfg.Convert.MaxDepth < 0 {
		return fmt.Errorf("convert.max_depth must not be negative")
	}
	return nil
}

// loadConfig reads the config file selected by --config or the XDG default.
// An explicitly named file must exist.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFileName)
	}

	cfg, err := readConfig(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}
