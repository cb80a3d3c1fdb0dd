package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// runConfig is the fully resolved set of parameters the §6 CLI surface
// accepts, after layering flags over DELTASTEP_* environment variables
// over an optional config file over defaults (following
// junjiewwang-perf-analysis's pkg/config viper convention).
type runConfig struct {
	Vertices  int     // -n
	Degree    int     // -d
	Gamma     float64 // -g
	Seed      int64   // -s
	Threads   int     // -t: 0 selects the reference solver, >0 the parallel solver
	Animation int     // -a: 0..3, accepted for §6 contract compatibility, otherwise inert here
	Help      bool    // -v
	Config    string  // --config
}

func defaultConfig() runConfig {
	return runConfig{
		Vertices:  1000,
		Degree:    8,
		Gamma:     1.0,
		Seed:      0,
		Threads:   0,
		Animation: 0,
	}
}

// loadConfig resolves a runConfig from v, which must already have every
// flag bound via v.BindPFlag. Values flow, in increasing priority: built-in
// defaults, an optional --config file, DELTASTEP_* environment variables,
// explicit command-line flags.
func loadConfig(v *viper.Viper) (runConfig, error) {
	cfg := defaultConfig()

	v.SetDefault("vertices", cfg.Vertices)
	v.SetDefault("degree", cfg.Degree)
	v.SetDefault("gamma", cfg.Gamma)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("threads", cfg.Threads)
	v.SetDefault("animation", cfg.Animation)

	v.SetEnvPrefix("deltastep")
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return cfg, fmt.Errorf("reading config file %s: %w", path, err)
			}
			fmt.Fprintf(os.Stderr, "deltastep: config file %s not found, using defaults/env/flags\n", path)
		}
	}

	cfg.Vertices = v.GetInt("vertices")
	cfg.Degree = v.GetInt("degree")
	cfg.Gamma = v.GetFloat64("gamma")
	cfg.Seed = v.GetInt64("seed")
	cfg.Threads = v.GetInt("threads")
	cfg.Animation = v.GetInt("animation")
	cfg.Help = v.GetBool("verbose-help")
	cfg.Config = v.GetString("config")

	return cfg, cfg.validate()
}

// validate enforces the argument constraints §6/§8 rely on; any failure
// here is the CLI's "exit 1 on argument error" contract.
func (c runConfig) validate() error {
	if c.Vertices < 0 {
		return fmt.Errorf("-n must be >= 0, got %d", c.Vertices)
	}
	if c.Degree <= 0 {
		return fmt.Errorf("-d must be > 0, got %d", c.Degree)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("-g must be in [0,1], got %v", c.Gamma)
	}
	if c.Threads < 0 {
		return fmt.Errorf("-t must be >= 0, got %d", c.Threads)
	}
	if c.Animation < 0 || c.Animation > 3 {
		return fmt.Errorf("-a must be in [0,3], got %d", c.Animation)
	}
	return nil
}
