package githubapi

import (
	"context"
	"encoding/json"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/canstralian/CodeQualityAI/domain"
)

type repoResponse struct {
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	WatchersCount   int     `json:"watchers_count"`
	Language        *string `json:"language"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	DefaultBranch   string  `json:"default_branch"`
	HTMLURL         string  `json:"html_url"`
	License         *struct {
		Name string `json:"name"`
	} `json:"license"`
}

// Info fetches repository metadata. The result is cached for the lifetime of
// the client, so repeated calls perform a single API request.
func (c *Client) Info(ctx context.Context) (*domain.RepositoryInfo, error) {
	if c.infoCache != nil {
		logger.Debugf("Using cached repository info for %s/%s", c.owner, c.repo)
		return c.infoCache, nil
	}

	endpoint := fmt.Sprintf("/repos/%s/%s", c.owner, c.repo)

	raw, err := c.request(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp repoResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse repository response: %w", err)
	}

	info := &domain.RepositoryInfo{
		Name:          resp.Name,
		FullName:      resp.FullName,
		Description:   stringOrDefault(resp.Description, "No description"),
		Stars:         resp.StargazersCount,
		Forks:         resp.ForksCount,
		Watchers:      resp.WatchersCount,
		Language:      stringOrDefault(resp.Language, "Not specified"),
		CreatedAt:     resp.CreatedAt,
		UpdatedAt:     resp.UpdatedAt,
		DefaultBranch: resp.DefaultBranch,
		License:       "No license",
		URL:           resp.HTMLURL,
	}
	if info.DefaultBranch == "" {
		info.DefaultBranch = "main"
	}
	if resp.License != nil && resp.License.Name != "" {
		info.License = resp.License.Name
	}

	c.infoCache = info
	return info, nil
}

func stringOrDefault(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}
