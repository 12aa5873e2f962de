// Package config handles bvhtool configuration loading and management.
package config

import (
	"time"

	"github.com/philipparndt/gobvh/pkg/bvh"
	"go.uber.org/zap"
)

// Config holds all tool settings.
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Export  ExportConfig  `yaml:"export"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// BuildConfig holds BVH construction settings.
type BuildConfig struct {
	Workers           int `yaml:"workers"`            // 0 or 1 builds sequentially
	ParallelThreshold int `yaml:"parallel_threshold"` // smallest range forked onto a goroutine
}

// ExportConfig holds default output paths. Empty means no output.
type ExportConfig struct {
	OBJPath string `yaml:"obj_path"`
	GPUPath string `yaml:"gpu_path"`
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Workers:           bvh.AllCores(nil).Workers,
			ParallelThreshold: bvh.DefaultParallelThreshold,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Options converts the build settings into builder options.
func (c BuildConfig) Options(logger *zap.Logger) bvh.BuildOptions {
	return bvh.BuildOptions{
		Workers:           c.Workers,
		ParallelThreshold: c.ParallelThreshold,
		Logger:            logger,
	}
}
