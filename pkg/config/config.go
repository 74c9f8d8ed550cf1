// Package config loads erdlayout configuration from TOML files.
//
// A config file is optional everywhere it is accepted: callers start from
// Default() and overlay the file's values, and CLI flags overlay both. The
// file has three tables:
//
//	[layout]
//	hgap = 390.0
//	vgap = 320.0
//	origin_x = 600.0
//	origin_y = 100.0
//	min_hgap = 350.0
//	sweep_iterations = 4
//	max_nodes = 5000
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "file"   # file, redis, none
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/erdlayout/pkg/layout"
)

// Cache backend names accepted in the [cache] table.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config is the root configuration document.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// LayoutConfig mirrors layout.Config with TOML field names.
type LayoutConfig struct {
	HGap            float64 `toml:"hgap"`
	VGap            float64 `toml:"vgap"`
	OriginX         float64 `toml:"origin_x"`
	OriginY         float64 `toml:"origin_y"`
	MinHGap         float64 `toml:"min_hgap"`
	SweepIterations int     `toml:"sweep_iterations"`
	MaxNodes        int     `toml:"max_nodes"`
}

// ServerConfig configures the HTTP layout service.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects and configures the layout result cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			HGap:            layout.DefaultHGap,
			VGap:            layout.DefaultVGap,
			OriginX:         layout.DefaultOriginX,
			OriginY:         layout.DefaultOriginY,
			MinHGap:         layout.DefaultMinHGap,
			SweepIterations: layout.DefaultSweepIterations,
			MaxNodes:        layout.DefaultMaxNodes,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads a TOML config file and overlays it on the defaults.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Layout.SweepIterations < 0 {
		return fmt.Errorf("sweep_iterations must be >= 0, got %d", c.Layout.SweepIterations)
	}
	if c.Layout.MinHGap < 0 || c.Layout.HGap < 0 || c.Layout.VGap < 0 {
		return fmt.Errorf("layout gaps must be >= 0")
	}
	return nil
}

// ToLayout converts the TOML view into the engine's Config.
func (c LayoutConfig) ToLayout() layout.Config {
	return layout.Config{
		HGap:            c.HGap,
		VGap:            c.VGap,
		OriginX:         c.OriginX,
		OriginY:         c.OriginY,
		MinHGap:         c.MinHGap,
		SweepIterations: c.SweepIterations,
		MaxNodes:        c.MaxNodes,
	}
}
