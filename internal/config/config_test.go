package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/philipparndt/gobvh/pkg/bvh"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.GreaterOrEqual(t, cfg.Build.Workers, 1)
	require.Equal(t, bvh.DefaultParallelThreshold, cfg.Build.ParallelThreshold)
	require.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Empty(t, cfg.Export.OBJPath)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `
build:
  workers: 3
export:
  obj_path: boxes.obj
watch:
  debounce: 250ms
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, used, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, used)

	require.Equal(t, 3, cfg.Build.Workers)
	require.Equal(t, bvh.DefaultParallelThreshold, cfg.Build.ParallelThreshold)
	require.Equal(t, "boxes.obj", cfg.Export.OBJPath)
	require.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("build: [unclosed"), 0o644))

	_, _, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Build.Workers = 2
	cfg.Export.GPUPath = "scene.bvh"
	cfg.Watch.Debounce = time.Second
	require.NoError(t, Save(cfg, path))

	loaded, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestBuildOptions(t *testing.T) {
	opts := BuildConfig{Workers: 4, ParallelThreshold: 64}.Options(nil)
	require.Equal(t, 4, opts.Workers)
	require.Equal(t, 64, opts.ParallelThreshold)
	require.Nil(t, opts.Logger)
}

func TestDefaultUsesAllCores(t *testing.T) {
	require.Equal(t, bvh.AllCores(nil).Workers, Default().Build.Workers)
}
