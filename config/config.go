package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the analyzer.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	GitHub   GitHubConfig   `yaml:"github"`
	OAuth    OAuthConfig    `yaml:"oauth"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ServerConfig holds the dashboard server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"` // host:port the dashboard listens on
}

// GitHubConfig holds API access settings.
type GitHubConfig struct {
	Token string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// OAuthConfig holds the GitHub OAuth app credentials for the dashboard login.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"` // Inline, ${ENV_VAR}, or file path
	RedirectURI  string `yaml:"redirect_uri"`
}

// AnalysisConfig holds the defaults for an analysis run.
type AnalysisConfig struct {
	MaxFiles     int      `yaml:"max_files"`
	FileTypes    []string `yaml:"file_types"`
	Depth        string   `yaml:"depth"` // "basic", "standard", or "deep"
	CommitLimit  int      `yaml:"commit_limit"`
	ExcludedDirs []string `yaml:"excluded_dirs"`
}

// Default returns a configuration with the built-in defaults, used when no
// config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment variables,
// resolving secret file paths and applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	// Resolve secrets (env vars and file paths)
	cfg.GitHub.Token = ResolveToken(cfg.GitHub.Token)
	cfg.OAuth.ClientSecret = ResolveToken(cfg.OAuth.ClientSecret)

	applyDefaults(&cfg)

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".codequality.yaml",
		".codequality.yml",
		"codequality.yaml",
		"codequality.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// applyDefaults fills in every zero-valued knob.
func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Analysis.MaxFiles == 0 {
		cfg.Analysis.MaxFiles = 10
	}
	if len(cfg.Analysis.FileTypes) == 0 {
		cfg.Analysis.FileTypes = []string{"py", "js"}
	}
	if cfg.Analysis.Depth == "" {
		cfg.Analysis.Depth = "standard"
	}
	if cfg.Analysis.CommitLimit == 0 {
		cfg.Analysis.CommitLimit = 50
	}
	if len(cfg.Analysis.ExcludedDirs) == 0 {
		cfg.Analysis.ExcludedDirs = []string{
			"node_modules", "venv", ".git", "__pycache__", "dist", "build",
		}
	}
}

// validate checks for inconsistent configuration values.
func validate(cfg *Config) error {
	if cfg.Analysis.MaxFiles < 0 {
		return errors.New("analysis.max_files must not be negative")
	}
	if cfg.Analysis.CommitLimit < 0 {
		return errors.New("analysis.commit_limit must not be negative")
	}

	switch cfg.Analysis.Depth {
	case "basic", "standard", "deep":
	default:
		return fmt.Errorf("analysis.depth %q is invalid (use basic, standard or deep)", cfg.Analysis.Depth)
	}

	if (cfg.OAuth.ClientID == "") != (cfg.OAuth.ClientSecret == "") {
		return errors.New("oauth.client_id and oauth.client_secret must be set together")
	}

	return nil
}
