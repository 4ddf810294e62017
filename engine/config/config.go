package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/cantarcan/NazaraEngine/engine/core"
)

// Instancing holds the batching tunables. MinInstances is the instance count
// at which the deferred queue flips a material to instanced rendering;
// MaxInstances is the capacity of the per-instance transform buffer.
type Instancing struct {
	MinInstances int `toml:"min_instances"`
	MaxInstances int `toml:"max_instances"`
}

type Limits struct {
	MaxTextureUnits int `toml:"max_texture_units"`
}

// Features can force-disable hardware paths the device reports as
// supported, mostly for debugging driver issues.
type Features struct {
	VertexArrayObjects bool `toml:"vertex_array_objects"`
	SamplerObjects     bool `toml:"sampler_objects"`
}

type Config struct {
	Instancing Instancing `toml:"instancing"`
	Limits     Limits     `toml:"limits"`
	Features   Features   `toml:"features"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Instancing: Instancing{
			MinInstances: 100,
			MaxInstances: 1024,
		},
		Limits: Limits{
			MaxTextureUnits: 32,
		},
		Features: Features{
			VertexArrayObjects: true,
			SamplerObjects:     true,
		},
	}
}

// Load reads a TOML configuration file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Instancing.MinInstances < 1 {
		core.LogWarn("config: min_instances %d below 1, clamping", cfg.Instancing.MinInstances)
		cfg.Instancing.MinInstances = 1
	}
	if cfg.Instancing.MaxInstances < cfg.Instancing.MinInstances {
		core.LogWarn("config: max_instances %d below min_instances, raising", cfg.Instancing.MaxInstances)
		cfg.Instancing.MaxInstances = cfg.Instancing.MinInstances
	}
	return cfg, nil
}
