package cmd

import (
	"github.com/spf13/cobra"

	"github.com/canstralian/CodeQualityAI/internal"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var serveAddr string

//nolint:gochecknoglobals // required by cobra CLI pattern
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Serve the analysis dashboard over HTTP.

The dashboard accepts a repository URL, streams analysis progress over
a WebSocket and renders the final report. GitHub OAuth login is enabled
when oauth.client_id and oauth.client_secret are configured.`,
	RunE: runServe,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"Listen address, e.g. :8080 (overrides the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(command *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if command.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}

	srv := internal.InjectServer(cfg)

	return srv.Start()
}
