// Package config loads checker settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
)

// #region config

// Config holds every tunable of a checker process.
type Config struct {
	RulesDB            string        `yaml:"rules_db"`
	DecoderAddr        string        `yaml:"decoder_addr"`
	Timeout            time.Duration `yaml:"timeout"`
	Parallel           int           `yaml:"parallel"`
	LogLevel           string        `yaml:"log_level"`
	Policy             []string      `yaml:"policy"`
	RevisionConstraint string        `yaml:"revision_constraint"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		RulesDB:     "legality.db",
		DecoderAddr: "localhost:50051",
		Timeout:     5 * time.Second,
		Parallel:    4,
		LogLevel:    "info",
	}
}

// #endregion config

// #region load

// Load reads path over the defaults, then applies LEGALITY_* environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %q: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.RulesDB = envOr("LEGALITY_RULES_DB", c.RulesDB)
	c.DecoderAddr = envOr("LEGALITY_DECODER_ADDR", c.DecoderAddr)
	c.LogLevel = envOr("LEGALITY_LOG_LEVEL", c.LogLevel)
	c.RevisionConstraint = envOr("LEGALITY_REVISION", c.RevisionConstraint)
	if v := os.Getenv("LEGALITY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LEGALITY_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("LEGALITY_PARALLEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEGALITY_PARALLEL: %w", err)
		}
		c.Parallel = n
	}
	if v := os.Getenv("LEGALITY_POLICY"); v != "" {
		c.Policy = strings.Split(v, ",")
	}
	return nil
}

// Validate checks ranges and parses the structured fields once.
func (c Config) Validate() error {
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := c.EncounterPolicy(); err != nil {
		return err
	}
	return nil
}

// EncounterPolicy parses Policy; an empty list yields the default order.
func (c Config) EncounterPolicy() (encounter.Policy, error) {
	if len(c.Policy) == 0 {
		return encounter.DefaultPolicy(), nil
	}
	names := make([]string, len(c.Policy))
	for i, n := range c.Policy {
		names[i] = strings.TrimSpace(n)
	}
	p, err := encounter.ParsePolicy(names)
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	return p, nil
}

// #endregion load

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
