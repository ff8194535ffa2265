package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type WeightsConfig struct {
	FirstName       int `toml:"first_name"`
	FatherName      int `toml:"father_name"`
	GrandfatherName int `toml:"grandfather_name"`
	FamilyName      int `toml:"family_name"`
}

// MatchingConfig is the confidence policy table used by the duplicate resolver.
type MatchingConfig struct {
	FindThreshold    int           `toml:"find_threshold"`
	ResolveThreshold int           `toml:"resolve_threshold"`
	ConfirmThreshold int           `toml:"confirm_threshold"`
	LinkThreshold    int           `toml:"link_threshold"`
	MaxAlternatives  int           `toml:"max_alternatives"`
	Weights          WeightsConfig `toml:"weights"`
}

type TreeConfig struct {
	MaxDepth           int      `toml:"max_depth"`
	MaxTotal           int      `toml:"max_total"`
	ChildRelations     []string `toml:"child_relations"`
	HeadRelations      []string `toml:"head_relations"`
	SameGroupParentage bool     `toml:"same_group_parentage"`
}

type FederationConfig struct {
	MaxHops         int `toml:"max_hops"`
	LoadConcurrency int `toml:"load_concurrency"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      string `toml:"ttl"`
}

type ServerConfig struct {
	Port    string `toml:"port"`
	LogMode string `toml:"log_mode"`
}

type Config struct {
	Matching   MatchingConfig   `toml:"matching"`
	Tree       TreeConfig       `toml:"tree"`
	Federation FederationConfig `toml:"federation"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Redis      RedisConfig      `toml:"redis"`
	Server     ServerConfig     `toml:"server"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			FindThreshold:    80,
			ResolveThreshold: 70,
			ConfirmThreshold: 80,
			LinkThreshold:    95,
			MaxAlternatives:  3,
			Weights: WeightsConfig{
				FirstName:       40,
				FatherName:      35,
				GrandfatherName: 15,
				FamilyName:      10,
			},
		},
		Tree: TreeConfig{
			MaxDepth:           15,
			MaxTotal:           2000,
			ChildRelations:     []string{"ابن", "ابنة", "بنت", "son", "daughter", "child"},
			HeadRelations:      []string{"رب العائلة", "head"},
			SameGroupParentage: true,
		},
		Federation: FederationConfig{
			MaxHops:         10,
			LoadConcurrency: 4,
		},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Redis: RedisConfig{
			TTL: "5m",
		},
		Server: ServerConfig{
			Port:    "8080",
			LogMode: "development",
		},
	}
}

// Load reads a TOML file on top of Default, so omitted keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	m := c.Matching
	if m.ResolveThreshold < 0 || m.LinkThreshold > 100 {
		return fmt.Errorf("matching thresholds must lie in [0,100]")
	}
	if !(m.ResolveThreshold <= m.ConfirmThreshold && m.ConfirmThreshold <= m.LinkThreshold) {
		return fmt.Errorf("matching thresholds must be ordered: resolve <= confirm <= link")
	}
	w := m.Weights
	if w.FirstName < 0 || w.FatherName < 0 || w.GrandfatherName < 0 || w.FamilyName < 0 {
		return fmt.Errorf("matching weights must be non-negative")
	}
	if c.Tree.MaxDepth < 0 || c.Tree.MaxTotal < 1 {
		return fmt.Errorf("tree limits must be positive (max_depth=%d, max_total=%d)", c.Tree.MaxDepth, c.Tree.MaxTotal)
	}
	if c.Federation.MaxHops < 1 {
		return fmt.Errorf("federation.max_hops must be at least 1")
	}
	if _, err := c.Redis.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses the redis TTL, defaulting to five minutes.
func (r RedisConfig) CacheTTL() (time.Duration, error) {
	if strings.TrimSpace(r.TTL) == "" {
		return 5 * time.Minute, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis.ttl %q: %w", r.TTL, err)
	}
	return d, nil
}

// ApplyEnv overrides connection settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_MODE"); v != "" {
		c.Server.LogMode = v
	}
	if v := os.Getenv("TREE_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Tree.MaxDepth = n
		}
	}
	if v := os.Getenv("TREE_MAX_TOTAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Tree.MaxTotal = n
		}
	}
}
