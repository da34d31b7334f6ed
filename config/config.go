// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the configuration of the mosaic executables from a
// YAML file and MOSAIC_ prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config values,
// for example MOSAIC_TILE_WIDTH.
const EnvPrefix = "MOSAIC"

type Config struct {
	Tile     TileConfig     `mapstructure:"tile"`
	Image    ImageConfig    `mapstructure:"image"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

type TileConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type ImageConfig struct {
	MaxBytes  int64  `mapstructure:"max_bytes"`
	MaxWidth  int    `mapstructure:"max_width"`
	MaxHeight int    `mapstructure:"max_height"`
	Resizer   string `mapstructure:"resizer"`
	Quality   uint   `mapstructure:"quality"`
}

type WorkerConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Routines int  `mapstructure:"routines"`
}

// ResolverConfig selects how average colors become tiles. Kind is one of
// svg, png, ansi, palette, http or remote.
type ResolverConfig struct {
	Kind         string        `mapstructure:"kind"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateInterval time.Duration `mapstructure:"rate_interval"`
	Burst        int           `mapstructure:"burst"`
	Concurrency  int           `mapstructure:"concurrency"`
	Palette      []string      `mapstructure:"palette"`
	Metric       string        `mapstructure:"metric"`
	// Render is the local resolver used after palette matching.
	Render string `mapstructure:"render"`
}

// CacheConfig selects the tile cache: none, memory or redis.
type CacheConfig struct {
	Kind          string        `mapstructure:"kind"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Load reads the config from the YAML file. Missing values are set to their
// defaults, environment variables override the file.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshal(v)
}

// FromEnv returns the default config with environment overrides applied.
func FromEnv() (*Config, error) {
	return unmarshal(newViper())
}

// New loads the config from configPath. If configPath is empty the defaults
// with environment overrides are used.
func New(configPath string) (*Config, error) {
	if configPath != "" {
		return Load(configPath)
	}
	return FromEnv()
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that can't be checked later on.
func (cfg *Config) Validate() error {
	if cfg.Tile.Width <= 0 || cfg.Tile.Height <= 0 {
		return fmt.Errorf("tile size must be positive, got %dx%d", cfg.Tile.Width, cfg.Tile.Height)
	}
	switch strings.ToLower(cfg.Resolver.Kind) {
	case "svg", "png", "ansi", "palette":
	case "http", "remote":
		if cfg.Resolver.BaseURL == "" {
			return fmt.Errorf("resolver %s requires resolver.base_url", cfg.Resolver.Kind)
		}
	default:
		return fmt.Errorf("unknown resolver kind %q", cfg.Resolver.Kind)
	}
	switch strings.ToLower(cfg.Cache.Kind) {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("unknown cache kind %q", cfg.Cache.Kind)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("tile.width", def.Tile.Width)
	v.SetDefault("tile.height", def.Tile.Height)

	v.SetDefault("image.max_bytes", def.Image.MaxBytes)
	v.SetDefault("image.max_width", def.Image.MaxWidth)
	v.SetDefault("image.max_height", def.Image.MaxHeight)
	v.SetDefault("image.resizer", def.Image.Resizer)
	v.SetDefault("image.quality", def.Image.Quality)

	v.SetDefault("worker.enabled", def.Worker.Enabled)
	v.SetDefault("worker.routines", def.Worker.Routines)

	v.SetDefault("resolver.kind", def.Resolver.Kind)
	v.SetDefault("resolver.base_url", def.Resolver.BaseURL)
	v.SetDefault("resolver.timeout", def.Resolver.Timeout)
	v.SetDefault("resolver.rate_interval", def.Resolver.RateInterval)
	v.SetDefault("resolver.burst", def.Resolver.Burst)
	v.SetDefault("resolver.concurrency", def.Resolver.Concurrency)
	v.SetDefault("resolver.palette", def.Resolver.Palette)
	v.SetDefault("resolver.metric", def.Resolver.Metric)
	v.SetDefault("resolver.render", def.Resolver.Render)

	v.SetDefault("cache.kind", def.Cache.Kind)
	v.SetDefault("cache.ttl", def.Cache.TTL)
	v.SetDefault("cache.redis_addr", def.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", def.Cache.RedisPassword)
	v.SetDefault("cache.redis_db", def.Cache.RedisDB)

	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.mode", def.Server.Mode)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.json", def.Log.JSON)
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tile: TileConfig{
			Width:  16,
			Height: 16,
		},
		Image: ImageConfig{
			MaxBytes:  256000,
			MaxWidth:  1024,
			MaxHeight: 1024,
			Resizer:   "nfnt",
			Quality:   3,
		},
		Worker: WorkerConfig{
			Enabled:  true,
			Routines: 0,
		},
		Resolver: ResolverConfig{
			Kind:         "svg",
			BaseURL:      "",
			Timeout:      30 * time.Second,
			RateInterval: 0,
			Burst:        1,
			Concurrency:  8,
			Palette:      nil,
			Metric:       "lab",
			Render:       "svg",
		},
		Cache: CacheConfig{
			Kind:          "none",
			TTL:           time.Hour,
			RedisAddr:     "localhost:6379",
			RedisPassword: "",
			RedisDB:       0,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Mode:         "release",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
