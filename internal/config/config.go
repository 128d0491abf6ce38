package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the input/output paths and export settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir" toml:"input_dir"`
	OutputDir string `json:"output_dir" toml:"output_dir"`

	// Export settings
	MaxTextureSize int    `json:"max_texture_size" toml:"max_texture_size"`
	PreviewSize    int    `json:"preview_size" toml:"preview_size"`
	Workers        int    `json:"workers" toml:"workers"`
	DecodeNodes    bool   `json:"decode_nodes" toml:"decode_nodes"`
	Watch          bool   `json:"watch" toml:"watch"`
	LogLevel       string `json:"log_level" toml:"log_level"`
}

// Load reads a JSON or TOML config file (chosen by extension) and returns
// Config. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir       string
	OutputDir      string
	MaxTextureSize int
	PreviewSize    int
	Workers        int
	LogLevel       string
	DecodeNodes    bool
	Watch          bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.MaxTextureSize > 0 {
		c.MaxTextureSize = flags.MaxTextureSize
	}
	if flags.PreviewSize != 0 {
		c.PreviewSize = flags.PreviewSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	c.DecodeNodes = c.DecodeNodes || flags.DecodeNodes
	c.Watch = c.Watch || flags.Watch

	if c.InputDir == "" {
		c.InputDir = "."
	}

	// Output goes next to the input unless given
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "assbin-export")
	} else if !filepath.IsAbs(c.OutputDir) && flags.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	if c.MaxTextureSize <= 0 {
		c.MaxTextureSize = 1024
	}
	// A negative preview size turns previews off
	if c.PreviewSize == 0 {
		c.PreviewSize = 256
	} else if c.PreviewSize < 0 {
		c.PreviewSize = 0
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
