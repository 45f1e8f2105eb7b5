package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "config/config.toml"

// Duration reads "30s"-style values from both TOML and the environment.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Port string `toml:"port" env:"PORT"`
	Mode string `toml:"mode" env:"GIN_MODE"`
}

type SolverConfig struct {
	MaxAssignments int      `toml:"max_assignments" env:"SOLVER_MAX_ASSIGNMENTS"`
	Timeout        Duration `toml:"timeout" env:"SOLVER_TIMEOUT"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri" env:"MEMGRAPH_URI"`
	User     string `toml:"user" env:"MEMGRAPH_USER"`
	Password string `toml:"password" env:"MEMGRAPH_PASSWORD"`
}

type RedisConfig struct {
	URL string   `toml:"url" env:"REDIS_URL"`
	TTL Duration `toml:"ttl" env:"REDIS_TTL"`
}

type LogConfig struct {
	Level       string `toml:"level" env:"LOG_LEVEL"`
	Development bool   `toml:"development" env:"LOG_DEVELOPMENT"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Solver   SolverConfig   `toml:"solver"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Redis    RedisConfig    `toml:"redis"`
	Log      LogConfig      `toml:"log"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Mode: "release"},
		Solver: SolverConfig{MaxAssignments: 1_000_000, Timeout: Duration(30 * time.Second)},
		Redis:  RedisConfig{TTL: Duration(time.Hour)},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the TOML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults + env only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Path returns CONFIG_PATH when set, DefaultPath otherwise.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}
