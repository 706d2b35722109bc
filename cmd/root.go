package cmd

import (
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/canstralian/CodeQualityAI/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath    string
	tokenOverride string
	verbose       bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "codequality",
	Short: "Code quality analyzer for GitHub repositories",
	Long: `A tool that fetches a GitHub repository through the REST API,
runs heuristic quality checks over its source files, and reports
issues, suggestions and a per-file quality score.

Usage modes:
  codequality analyze owner/repo   Analyze a repository from the terminal
  codequality serve                Start the web dashboard`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&tokenOverride, "token", "",
		"GitHub API token (overrides the config file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}

// loadConfig resolves the configuration for a command run: the --config
// flag wins, then an auto-detected file, then built-in defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if found, err := config.FindConfigFile(); err == nil {
			path = found
		}
	}

	cfg := config.Default()
	if path != "" {
		logger.Infof("Using config file: %s", path)

		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if tokenOverride != "" {
		cfg.GitHub.Token = tokenOverride
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}

	return cfg, nil
}
