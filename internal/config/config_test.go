package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltree-renderer/internal/mathutil"
	"ltree-renderer/internal/postprocess"
	"ltree-renderer/internal/treemesh"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "ltree.json", `{
  "base_dir": "/data",
  "profile_dir": "trees",
  "render_size": 256,
  "view_yaw": 0,
  "workers": 3
}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.BaseDir)
	assert.Equal(t, "trees", cfg.ProfileDir)
	assert.Equal(t, 256, cfg.RenderSize)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.viewSet)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "ltree.toml", `
base_dir    = "/data"
texture_dir = "textures"
seeds       = 4
base_seed   = 100
fov         = 35.0
fill_ratio  = 0.8
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "textures", cfg.TextureDir)
	assert.Equal(t, 4, cfg.Seeds)
	assert.Equal(t, int64(100), cfg.BaseSeed)
	assert.Equal(t, 35.0, cfg.FOV)
	assert.Equal(t, 0.8, cfg.FillRatio)
	assert.False(t, cfg.viewSet)
}

func TestLoadTOMLRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "ltree.toml", "render_sise = 128\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, `unknown key "render_sise"`)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "config: parse")

	_, err = Load(writeConfig(t, "bad.toml", "seeds = ["))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	assert.Equal(t, DefaultProfileDir, cfg.ProfileDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Empty(t, cfg.TextureDir)
	assert.Equal(t, DefaultSeeds, cfg.Seeds)
	assert.Equal(t, int64(DefaultBaseSeed), cfg.BaseSeed)
	assert.Equal(t, DefaultRenderSize, cfg.RenderSize)
	assert.Equal(t, DefaultSupersample, cfg.Supersample)
	assert.Equal(t, treemesh.DefaultRadialSegments, cfg.RadialSegments)
	assert.Equal(t, mathutil.DefaultViewYaw, cfg.ViewYaw)
	assert.Equal(t, mathutil.DefaultViewPitch, cfg.ViewPitch)
	assert.Equal(t, postprocess.DefaultFillRatio, cfg.FillRatio)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Zero(t, cfg.FOV)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	cfg := Config{
		BaseDir:    "/data",
		ProfileDir: "trees",
		OutputDir:  "/abs/out",
		TextureDir: "tex",
		RenderSize: 256,
		Seeds:      2,
		Workers:    1,
	}
	cfg.Resolve(Flags{RenderSize: 1024, Seeds: 16, BaseSeed: 7, ProfileDir: "other"})

	assert.Equal(t, filepath.Join("/data", "other"), cfg.ProfileDir)
	assert.Equal(t, "/abs/out", cfg.OutputDir)
	assert.Equal(t, filepath.Join("/data", "tex"), cfg.TextureDir)
	assert.Equal(t, 1024, cfg.RenderSize)
	assert.Equal(t, 16, cfg.Seeds)
	assert.Equal(t, int64(7), cfg.BaseSeed)
	assert.Equal(t, 1, cfg.Workers)
}

func TestResolveKeepsExplicitView(t *testing.T) {
	path := writeConfig(t, "ltree.json", `{"view_yaw": 0, "view_pitch": 0}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{})
	assert.Zero(t, cfg.ViewYaw)
	assert.Zero(t, cfg.ViewPitch)
}

func TestResolveClampsFillRatio(t *testing.T) {
	cfg := Config{FillRatio: 1.5, RadialSegments: 2}
	cfg.Resolve(Flags{})
	assert.Equal(t, postprocess.DefaultFillRatio, cfg.FillRatio)
	assert.Equal(t, treemesh.DefaultRadialSegments, cfg.RadialSegments)
}
