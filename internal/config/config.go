// Package config loads render settings from a JSON or TOML file and merges
// command-line overrides and defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"ltree-renderer/internal/mathutil"
	"ltree-renderer/internal/postprocess"
	"ltree-renderer/internal/treemesh"
)

// Defaults applied by Resolve.
const (
	DefaultProfileDir  = "profiles"
	DefaultOutputDir   = "renders"
	DefaultRenderSize  = 512
	DefaultSupersample = 2
	DefaultSeeds       = 8
	DefaultBaseSeed    = 1
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir" toml:"base_dir"`
	ProfileDir string `json:"profile_dir" toml:"profile_dir"`
	TextureDir string `json:"texture_dir" toml:"texture_dir"`
	OutputDir  string `json:"output_dir" toml:"output_dir"`

	// Generation
	Seeds    int   `json:"seeds" toml:"seeds"`
	BaseSeed int64 `json:"base_seed" toml:"base_seed"`

	// Render settings
	RenderSize     int     `json:"render_size" toml:"render_size"`
	Supersample    int     `json:"supersample" toml:"supersample"`
	RadialSegments int     `json:"radial_segments" toml:"radial_segments"`
	ViewYaw        float64 `json:"view_yaw" toml:"view_yaw"`
	ViewPitch      float64 `json:"view_pitch" toml:"view_pitch"`
	FOV            float64 `json:"fov" toml:"fov"`
	FillRatio      float64 `json:"fill_ratio" toml:"fill_ratio"`
	Workers        int     `json:"workers" toml:"workers"`

	// ViewYaw and ViewPitch are only defaulted when neither is set in the file.
	viewSet bool
}

// Load reads a config file; ".toml" files are decoded as TOML, anything
// else as JSON. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return Config{}, fmt.Errorf("config: %s: unknown key %q", path, keys[0].String())
		}
		cfg.viewSet = md.IsDefined("view_yaw") || md.IsDefined("view_pitch")
		return cfg, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	_, yaw := raw["view_yaw"]
	_, pitch := raw["view_pitch"]
	cfg.viewSet = yaw || pitch
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ProfileDir string
	TextureDir string
	OutputDir  string
	RenderSize int
	Seeds      int
	BaseSeed   int64
	Workers    int
}

// Resolve applies CLI overrides, then fills any unset field with its
// default. Relative paths are resolved against BaseDir when it is set.
func (c *Config) Resolve(flags Flags) {
	if flags.ProfileDir != "" {
		c.ProfileDir = flags.ProfileDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.RenderSize > 0 {
		c.RenderSize = flags.RenderSize
	}
	if flags.Seeds > 0 {
		c.Seeds = flags.Seeds
	}
	if flags.BaseSeed != 0 {
		c.BaseSeed = flags.BaseSeed
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.ProfileDir == "" {
		c.ProfileDir = DefaultProfileDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	c.ProfileDir = c.abs(c.ProfileDir)
	c.OutputDir = c.abs(c.OutputDir)
	c.TextureDir = c.abs(c.TextureDir)

	if c.Seeds <= 0 {
		c.Seeds = DefaultSeeds
	}
	if c.BaseSeed == 0 {
		c.BaseSeed = DefaultBaseSeed
	}
	if c.RenderSize <= 0 {
		c.RenderSize = DefaultRenderSize
	}
	if c.Supersample <= 0 {
		c.Supersample = DefaultSupersample
	}
	if c.RadialSegments < 3 {
		c.RadialSegments = treemesh.DefaultRadialSegments
	}
	if !c.viewSet && c.ViewYaw == 0 && c.ViewPitch == 0 {
		c.ViewYaw = mathutil.DefaultViewYaw
		c.ViewPitch = mathutil.DefaultViewPitch
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = postprocess.DefaultFillRatio
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
