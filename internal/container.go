package internal

import (
	"go.uber.org/dig"

	"github.com/canstralian/CodeQualityAI/application"
	"github.com/canstralian/CodeQualityAI/config"
	"github.com/canstralian/CodeQualityAI/domain"
	"github.com/canstralian/CodeQualityAI/infrastructure/analyzer"
	"github.com/canstralian/CodeQualityAI/infrastructure/githubapi"
	"github.com/canstralian/CodeQualityAI/infrastructure/oauth"
	"github.com/canstralian/CodeQualityAI/infrastructure/server"
)

// RegisterProviders registers all constructors with the DIG container.
// The configuration itself must be provided by the caller.
func RegisterProviders(container *dig.Container) error {
	providers := []any{
		newAnalyzer,
		application.NewAnalysisService,
		newReaderFactory,
		newOAuthFlow,
		server.NewServer,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return err
		}
	}

	return nil
}

// InjectServer builds the dashboard server with all its dependencies wired.
func InjectServer(cfg *config.Config) *server.Server {
	container := dig.New()

	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		panic(err)
	}
	if err := RegisterProviders(container); err != nil {
		panic(err)
	}

	var srv *server.Server
	if err := container.Invoke(func(s *server.Server) {
		srv = s
	}); err != nil {
		panic(err)
	}

	return srv
}

func newAnalyzer() domain.Analyzer {
	return analyzer.NewPatternAnalyzer()
}

func newReaderFactory(cfg *config.Config) server.ReaderFactory {
	return func(owner, repo string) domain.RepositoryReader {
		return githubapi.NewClient(owner, repo, githubapi.WithToken(cfg.GitHub.Token))
	}
}

// newOAuthFlow returns nil when OAuth is not configured; the server then
// reports the auth endpoints as unavailable.
func newOAuthFlow(cfg *config.Config) *oauth.Flow {
	if cfg.OAuth.ClientID == "" {
		return nil
	}
	return oauth.NewFlow(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.RedirectURI)
}
