// Package repourl parses the GitHub repository URL forms users paste into
// the dashboard or the CLI.
package repourl

import (
	"errors"
	"regexp"
)

// ErrInvalidURL is returned when no known GitHub URL form matches.
var ErrInvalidURL = errors.New("invalid GitHub repository URL")

// patterns covers the accepted URL shapes, most specific first.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`), // https://github.com/owner/repo[.git][/]
	regexp.MustCompile(`github\.com:([^/]+)/([^/]+?)\.git$`),       // git@github.com:owner/repo.git
	regexp.MustCompile(`^([^/\s]+)/([^/\s]+)$`),                    // owner/repo shorthand
}

// Parse extracts (owner, repo) from a GitHub repository URL.
func Parse(rawURL string) (string, string, error) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1], m[2], nil
		}
	}
	return "", "", ErrInvalidURL
}
