package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/RowanDark/cribdrag/internal/baudot"
	"github.com/RowanDark/cribdrag/internal/crib"
	"github.com/RowanDark/cribdrag/internal/env"
)

const (
	homeDirName   = ".cribdrag"
	homeFileName  = "config.toml"
	localFileName = "cribdrag.yml"
)

// Config captures the cribdrag configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	Mode           string       `yaml:"mode" toml:"mode"`
	Policy         string       `yaml:"policy" toml:"policy"`
	Workers        int          `yaml:"workers" toml:"workers"`
	MaxPositions   int          `yaml:"max_positions" toml:"max_positions"`
	ReadableOnly   bool         `yaml:"readable_only" toml:"readable_only"`
	QuickCribs     []string     `yaml:"quick_cribs" toml:"quick_cribs"`
	AuditLog       string       `yaml:"audit_log" toml:"audit_log"`
	AuditPlaintext bool         `yaml:"audit_plaintext" toml:"audit_plaintext"`
	RecipesDir     string       `yaml:"recipes_dir" toml:"recipes_dir"`
	Server         ServerConfig `yaml:"server" toml:"server"`
}

// ServerConfig controls the cribd gRPC listener.
type ServerConfig struct {
	Addr      string `yaml:"addr" toml:"addr"`
	AuthToken string `yaml:"auth_token" toml:"auth_token"`
	MaxConns  int    `yaml:"max_conns" toml:"max_conns"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mode:       string(baudot.ModeMerged),
		Policy:     string(baudot.PolicyLenient),
		Workers:    runtime.NumCPU(),
		QuickCribs: append([]string(nil), crib.DefaultQuickCribs...),
		Server: ServerConfig{
			Addr:     "127.0.0.1:50061",
			MaxConns: 64,
		},
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. Files are applied in this order, later ones winning:
//  1. ~/.cribdrag/config.toml (TOML)
//  2. ./cribdrag.yml (YAML)
//
// Environment variables prefixed with CRIBDRAG_ have the highest precedence.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	wd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("determine working directory: %w", err)
	}
	return LoadFrom(home, wd)
}

// LoadFrom is Load with explicit home and working directories. An empty home
// skips the TOML file.
func LoadFrom(home, workDir string) (Config, error) {
	cfg := Default()

	if home != "" {
		path := filepath.Join(home, homeDirName, homeFileName)
		if err := loadFile(&cfg, path, "toml"); err != nil {
			return Config{}, err
		}
	}
	if err := loadFile(&cfg, filepath.Join(workDir, localFileName), "yaml"); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.RecipesDir == "" && home != "" {
		cfg.RecipesDir = filepath.Join(home, homeDirName, "recipes")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown table settings and out-of-range numbers.
func (c Config) Validate() error {
	var errs []error
	if _, err := baudot.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := baudot.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.MaxPositions < 0 {
		errs = append(errs, fmt.Errorf("max_positions must not be negative, got %d", c.MaxPositions))
	}
	if c.Server.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("server.max_conns must not be negative, got %d", c.Server.MaxConns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Table returns the code table selected by Mode and Policy.
func (c Config) Table() (*baudot.Table, error) {
	mode, err := baudot.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	policy, err := baudot.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	table, err := baudot.ForMode(mode)
	if err != nil {
		return nil, err
	}
	return table.WithPolicy(policy), nil
}

// EngineConfig builds the crib engine settings.
func (c Config) EngineConfig() (crib.Config, error) {
	table, err := c.Table()
	if err != nil {
		return crib.Config{}, err
	}
	return crib.Config{Table: table, Workers: c.Workers}, nil
}

func loadFile(cfg *Config, path, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data, format); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type fileConfig struct {
	Mode           *string           `yaml:"mode" toml:"mode"`
	Policy         *string           `yaml:"policy" toml:"policy"`
	Workers        *int              `yaml:"workers" toml:"workers"`
	MaxPositions   *int              `yaml:"max_positions" toml:"max_positions"`
	ReadableOnly   *bool             `yaml:"readable_only" toml:"readable_only"`
	QuickCribs     []string          `yaml:"quick_cribs" toml:"quick_cribs"`
	AuditLog       *string           `yaml:"audit_log" toml:"audit_log"`
	AuditPlaintext *bool             `yaml:"audit_plaintext" toml:"audit_plaintext"`
	RecipesDir     *string           `yaml:"recipes_dir" toml:"recipes_dir"`
	Server         *fileServerConfig `yaml:"server" toml:"server"`
}

type fileServerConfig struct {
	Addr      *string `yaml:"addr" toml:"addr"`
	AuthToken *string `yaml:"auth_token" toml:"auth_token"`
	MaxConns  *int    `yaml:"max_conns" toml:"max_conns"`
}

func applyFileConfig(cfg *Config, data []byte, format string) error {
	var fc fileConfig
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return err
		}
	case "toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	if fc.Mode != nil {
		cfg.Mode = strings.TrimSpace(*fc.Mode)
	}
	if fc.Policy != nil {
		cfg.Policy = strings.TrimSpace(*fc.Policy)
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.MaxPositions != nil {
		cfg.MaxPositions = *fc.MaxPositions
	}
	if fc.ReadableOnly != nil {
		cfg.ReadableOnly = *fc.ReadableOnly
	}
	if fc.QuickCribs != nil {
		cfg.QuickCribs = normalizeCribs(fc.QuickCribs)
	}
	if fc.AuditLog != nil {
		cfg.AuditLog = strings.TrimSpace(*fc.AuditLog)
	}
	if fc.AuditPlaintext != nil {
		cfg.AuditPlaintext = *fc.AuditPlaintext
	}
	if fc.RecipesDir != nil {
		cfg.RecipesDir = strings.TrimSpace(*fc.RecipesDir)
	}
	if fc.Server != nil {
		if fc.Server.Addr != nil {
			cfg.Server.Addr = strings.TrimSpace(*fc.Server.Addr)
		}
		if fc.Server.AuthToken != nil {
			cfg.Server.AuthToken = strings.TrimSpace(*fc.Server.AuthToken)
		}
		if fc.Server.MaxConns != nil {
			cfg.Server.MaxConns = *fc.Server.MaxConns
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val, ok := env.Lookup("CRIBDRAG_MODE"); ok {
		cfg.Mode = val
	}
	if val, ok := env.Lookup("CRIBDRAG_POLICY"); ok {
		cfg.Policy = val
	}
	if val, ok := env.Lookup("CRIBDRAG_WORKERS"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("CRIBDRAG_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if val, ok := env.Lookup("CRIBDRAG_MAX_POSITIONS"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("CRIBDRAG_MAX_POSITIONS: %w", err)
		}
		cfg.MaxPositions = n
	}
	if val, ok := env.Lookup("CRIBDRAG_READABLE_ONLY"); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("CRIBDRAG_READABLE_ONLY: %w", err)
		}
		cfg.ReadableOnly = b
	}
	if val, ok := env.Lookup("CRIBDRAG_QUICK_CRIBS"); ok {
		cfg.QuickCribs = normalizeCribs(strings.Split(val, ","))
	}
	if val, ok := env.Lookup("CRIBDRAG_AUDIT_LOG"); ok {
		cfg.AuditLog = val
	}
	if val, ok := env.Lookup("CRIBDRAG_RECIPES_DIR"); ok {
		cfg.RecipesDir = val
	}
	if val, ok := env.Lookup("CRIBDRAG_SERVER", "CRIBD_ADDR"); ok {
		cfg.Server.Addr = val
	}
	if val, ok := env.Lookup("CRIBDRAG_AUTH_TOKEN", "CRIBD_TOKEN"); ok {
		cfg.Server.AuthToken = val
	}
	if val, ok := env.Lookup("CRIBDRAG_MAX_CONNS"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("CRIBDRAG_MAX_CONNS: %w", err)
		}
		cfg.Server.MaxConns = n
	}
	return nil
}

func normalizeCribs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
